package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/selection"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/view"
)

// Banner copy for the user-visible failure categories
const (
	catalogFailedText         = "Failed to load movies. Please try again."
	recommendationsFailedText = "Failed to load recommendations. Please try again."
)

// Options tunes the model
type Options struct {
	BannerTimeout time.Duration
	GridColumns   int
	HistorySize   int

	// Now stamps history entries; defaults to time.Now
	Now func() time.Time
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Data
	Catalog       *catalog.Catalog
	CatalogStatus view.CatalogStatus
	Result        *domain.RecommendationResult // latest committed result
	Banners       []view.Banner
	History       []domain.HistoryEntry

	// Keyboard focus
	Focus           view.Focus
	MoviesCursor    int
	RecommendCursor int

	// Dimensions
	Width  int
	Height int

	// UI Components
	Search  textinput.Model
	Spinner spinner.Model

	// Services
	catalogRepo  domain.CatalogRepository
	controller   *selection.Controller
	historyStore domain.HistoryStore

	opts         Options
	nextBannerID int
	logger       *slog.Logger
}

// NewModel creates a new application model. history may be nil.
func NewModel(
	catalogRepo domain.CatalogRepository,
	controller *selection.Controller,
	history domain.HistoryStore,
	opts Options,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BannerTimeout <= 0 {
		opts.BannerTimeout = 5 * time.Second
	}
	if opts.GridColumns < 1 {
		opts.GridColumns = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Search by title, genre or director..."
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.PlaceholderStyle = styles.DimStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return Model{
		Catalog:       catalog.Empty(),
		CatalogStatus: view.CatalogLoading,
		Focus:         view.FocusMovies,
		Search:        ti,
		Spinner:       sp,
		catalogRepo:   catalogRepo,
		controller:    controller,
		historyStore:  history,
		opts:          opts,
		logger:        logger,
	}
}

// Init is the page-ready hook: it starts the one catalog load
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadCatalogCmd(m.catalogRepo),
		LoadHistoryCmd(m.historyStore, m.opts.HistorySize),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Search.Width = max(msg.Width-6, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case CatalogLoadedMsg:
		m.Catalog = catalog.New(msg.Movies)
		m.CatalogStatus = view.CatalogLoaded
		m.controller.SetCatalog(m.Catalog)
		m.clampCursors()
		return m, nil

	case SelectMovieMsg:
		cmd := m.selectMovie(msg.MovieID)
		return m, cmd

	case RecommendationsSettledMsg:
		cmd := m.settle(msg.Outcome)
		return m, cmd

	case ClearBannerMsg:
		m.removeBanner(msg.ID)
		return m, nil

	case HistoryLoadedMsg:
		m.History = msg.Entries
		return m, nil

	case ErrMsg:
		cmd := m.handleErr(msg)
		return m, cmd
	}

	return m, nil
}

// selectMovie starts a selection. Unknown ids are a silent no-op.
func (m *Model) selectMovie(movieID string) tea.Cmd {
	ticket, err := m.controller.Select(movieID)
	if err != nil {
		return nil
	}

	// The previous result belongs to an older selection
	m.Result = nil
	m.RecommendCursor = 0
	if m.Focus == view.FocusRecommendations {
		m.Focus = view.FocusMovies
	}
	return FetchRecommendationsCmd(m.controller, ticket)
}

// settle applies a fetch outcome if it is still current
func (m *Model) settle(o selection.Outcome) tea.Cmd {
	if !m.controller.Commit(o) {
		return nil
	}

	if o.Err != nil {
		m.Result = nil
		return m.showBanner(recommendationsFailedText)
	}

	result := o.Result
	m.Result = &result
	m.RecommendCursor = 0

	title := result.SourceTitle
	if movie, ok := m.Catalog.Lookup(o.Ticket.MovieID); ok {
		title = movie.Title
	}
	return RecordHistoryCmd(m.historyStore, domain.HistoryEntry{
		MovieID:  o.Ticket.MovieID,
		Title:    title,
		ViewedAt: m.opts.Now(),
	}, m.opts.HistorySize)
}

func (m *Model) handleErr(msg ErrMsg) tea.Cmd {
	if errors.Is(msg.Err, domain.ErrCatalogLoad) {
		m.logger.Error("catalog load failed", "error", msg.Err)
		m.Catalog = catalog.Empty()
		m.CatalogStatus = view.CatalogFailed
		m.controller.SetCatalog(m.Catalog)
		return m.showBanner(catalogFailedText)
	}
	m.logger.Warn("background task failed", "context", msg.Context, "error", msg.Err)
	return nil
}

// showBanner adds a banner and schedules its removal
func (m *Model) showBanner(text string) tea.Cmd {
	m.nextBannerID++
	id := m.nextBannerID
	banners := make([]view.Banner, 0, len(m.Banners)+1)
	banners = append(banners, m.Banners...)
	m.Banners = append(banners, view.Banner{ID: id, Message: text})
	return ClearBannerCmd(id, m.opts.BannerTimeout)
}

func (m *Model) removeBanner(id int) {
	banners := make([]view.Banner, 0, len(m.Banners))
	for _, b := range m.Banners {
		if b.ID != id {
			banners = append(banners, b)
		}
	}
	m.Banners = banners
}

// handleKeyMsg routes keys by focus
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.Focus == view.FocusSearch {
		return m.handleSearchKey(msg)
	}

	cols := m.opts.GridColumns
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Search):
		cmd := m.focusSearch()
		return m, cmd
	case key.Matches(msg, Keys.ClearHistory):
		return m, ClearHistoryCmd(m.historyStore)
	case key.Matches(msg, Keys.Tab):
		m.toggleGrid()
	case key.Matches(msg, Keys.Up):
		if m.Focus == view.FocusMovies && m.MoviesCursor < cols {
			cmd := m.focusSearch()
			return m, cmd
		}
		m.moveCursor(-cols)
	case key.Matches(msg, Keys.Down):
		m.moveCursor(cols)
	case key.Matches(msg, Keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, Keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, Keys.Enter):
		cmd := m.activate()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Escape, Keys.Tab) || msg.Type == tea.KeyEnter || msg.Type == tea.KeyDown {
		m.Search.Blur()
		m.Focus = view.FocusMovies
		m.clampCursors()
		return m, nil
	}

	prev := m.Search.Value()
	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	if m.Search.Value() != prev {
		m.MoviesCursor = 0
	}
	return m, cmd
}

func (m *Model) focusSearch() tea.Cmd {
	m.Focus = view.FocusSearch
	return m.Search.Focus()
}

// toggleGrid moves focus between the catalog and the recommendations
func (m *Model) toggleGrid() {
	switch m.Focus {
	case view.FocusMovies:
		if m.Result != nil && !m.Result.IsEmpty() {
			m.Focus = view.FocusRecommendations
			m.RecommendCursor = 0
		}
	case view.FocusRecommendations:
		m.Focus = view.FocusMovies
	}
}

func (m *Model) moveCursor(delta int) {
	switch m.Focus {
	case view.FocusMovies:
		m.MoviesCursor = clamp(m.MoviesCursor+delta, len(m.visibleMovies()))
	case view.FocusRecommendations:
		if m.Result != nil {
			m.RecommendCursor = clamp(m.RecommendCursor+delta, len(m.Result.Recommendations))
		}
	}
}

// activate selects the card under the cursor
func (m *Model) activate() tea.Cmd {
	switch m.Focus {
	case view.FocusMovies:
		movies := m.visibleMovies()
		if m.MoviesCursor < len(movies) {
			return m.selectMovie(movies[m.MoviesCursor].ID)
		}
	case view.FocusRecommendations:
		if m.Result == nil || m.RecommendCursor >= len(m.Result.Recommendations) {
			return nil
		}
		id := m.Result.Recommendations[m.RecommendCursor].ID
		cmd := m.selectMovie(id)
		if cmd != nil {
			m.Focus = view.FocusMovies
			for i, movie := range m.visibleMovies() {
				if movie.ID == id {
					m.MoviesCursor = i
					break
				}
			}
		}
		return cmd
	}
	return nil
}

func (m Model) visibleMovies() []*domain.Movie {
	if m.CatalogStatus != view.CatalogLoaded {
		return nil
	}
	return catalog.Filter(m.Catalog, m.Search.Value())
}

func (m *Model) clampCursors() {
	m.MoviesCursor = clamp(m.MoviesCursor, len(m.visibleMovies()))
	if m.Result != nil {
		m.RecommendCursor = clamp(m.RecommendCursor, len(m.Result.Recommendations))
	}
}

// clamp bounds i to [0, n-1], or 0 when n is 0
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Selection exposes the selection state for inspection
func (m Model) Selection() selection.Snapshot {
	return m.controller.State().Snapshot()
}

// Page renders the current state into the page model
func (m Model) Page() view.Page {
	return view.Render(view.Input{
		Catalog:         m.Catalog,
		CatalogStatus:   m.CatalogStatus,
		Query:           m.Search.Value(),
		Selection:       m.Selection(),
		Result:          m.Result,
		Banners:         m.Banners,
		History:         m.History,
		Focus:           m.Focus,
		MoviesCursor:    m.MoviesCursor,
		RecommendCursor: m.RecommendCursor,
	})
}
