package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/selection"
)

// Command factories for async operations

// LoadCatalogCmd loads the full movie list once. There is no retry.
func LoadCatalogCmd(repo domain.CatalogRepository) tea.Cmd {
	return func() tea.Msg {
		movies, err := repo.GetMovies(context.Background())
		if err != nil {
			if !errors.Is(err, domain.ErrCatalogLoad) {
				err = fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
			}
			return ErrMsg{Err: err, Context: "loading movies"}
		}
		return CatalogLoadedMsg{Movies: movies}
	}
}

// FetchRecommendationsCmd fetches recommendations for t off the event loop.
// The settled message always carries t so the model can discard it if stale.
func FetchRecommendationsCmd(ctrl *selection.Controller, t selection.Ticket) tea.Cmd {
	return func() tea.Msg {
		return RecommendationsSettledMsg{Outcome: ctrl.Fetch(context.Background(), t)}
	}
}

// ClearBannerCmd returns a command that removes banner id after a delay
func ClearBannerCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearBannerMsg{ID: id}
	})
}

// LoadHistoryCmd reads the recently viewed list
func LoadHistoryCmd(store domain.HistoryStore, limit int) tea.Cmd {
	if store == nil || limit <= 0 {
		return nil
	}
	return func() tea.Msg {
		entries, err := store.Recent(limit)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading history"}
		}
		return HistoryLoadedMsg{Entries: entries}
	}
}

// ClearHistoryCmd empties the recently viewed list
func ClearHistoryCmd(store domain.HistoryStore) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if err := store.Clear(); err != nil {
			return ErrMsg{Err: err, Context: "clearing history"}
		}
		return HistoryLoadedMsg{}
	}
}

// RecordHistoryCmd stores entry and returns the refreshed list
func RecordHistoryCmd(store domain.HistoryStore, entry domain.HistoryEntry, limit int) tea.Cmd {
	if store == nil || limit <= 0 {
		return nil
	}
	return func() tea.Msg {
		if err := store.Record(entry); err != nil {
			return ErrMsg{Err: err, Context: "saving history"}
		}
		entries, err := store.Recent(limit)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading history"}
		}
		return HistoryLoadedMsg{Entries: entries}
	}
}
