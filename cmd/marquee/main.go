package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/adapter/source/recsapi"
	"github.com/mmcdole/marquee/internal/selection"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	pflag.BoolVarP(&showVersion, "version", "v", false, "print version")
	adapter.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(pflag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("marquee needs an interactive terminal")
	}

	cfg, err := adapter.LoadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version, "server", cfg.Server.URL)

	client := recsapi.NewClient(cfg.Server.URL, recsapi.Options{
		Timeout:         cfg.Server.RequestTimeout,
		BreakerFailures: cfg.Server.BreakerFailures,
		BreakerCooldown: cfg.Server.BreakerCooldown,
	}, logger)

	history, err := store.NewHistoryStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		// History is optional; keep going without persistence
		logger.Warn("history store unavailable, using memory", "error", err)
		history, err = store.NewHistoryStore("", cfg.Server.URL)
		if err != nil {
			return fmt.Errorf("failed to create history store: %w", err)
		}
	}
	defer history.Close()

	controller := selection.NewController(nil, client, logger)

	model := tui.NewModel(client, controller, history, tui.Options{
		BannerTimeout: cfg.UI.BannerTimeout,
		GridColumns:   cfg.UI.GridColumns,
		HistorySize:   cfg.Cache.HistorySize,
	}, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
