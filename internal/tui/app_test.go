package tui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/selection"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/view"
)

var testMovies = []domain.Movie{
	{ID: "1", Title: "Dune", Genre: "Sci-Fi", Year: 2021},
	{ID: "2", Title: "Heat", Genre: "Crime", Year: 1995},
	{ID: "3", Title: "Arrival", Genre: "Sci-Fi", Year: 2016},
}

type fakeCatalogRepo struct {
	movies []domain.Movie
	err    error
}

func (r fakeCatalogRepo) GetMovies(ctx context.Context) ([]domain.Movie, error) {
	return r.movies, r.err
}

// fakeRecsRepo answers immediately; tests control delivery order by choosing
// when to run each returned command.
type fakeRecsRepo struct {
	recs map[string][]domain.Movie
	fail map[string]bool
}

func (r fakeRecsRepo) GetRecommendations(ctx context.Context, movieID string) (domain.RecommendationResult, error) {
	if r.fail[movieID] {
		return domain.RecommendationResult{}, fmt.Errorf("%w: status 500", domain.ErrNetworkFailure)
	}
	title := ""
	for _, m := range testMovies {
		if m.ID == movieID {
			title = m.Title
		}
	}
	return domain.RecommendationResult{SourceTitle: title, Recommendations: r.recs[movieID]}, nil
}

func newTestModel(t *testing.T, recs fakeRecsRepo, history domain.HistoryStore) Model {
	t.Helper()
	ctrl := selection.NewController(nil, recs, nil)
	return NewModel(fakeCatalogRepo{movies: testMovies}, ctrl, history, Options{
		BannerTimeout: 10 * time.Millisecond,
		GridColumns:   3,
		HistorySize:   5,
	}, nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, LoadCatalogCmd(m.catalogRepo)())
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func gridIDs(g view.Grid) []string {
	ids := make([]string, len(g.Cards))
	for i, c := range g.Cards {
		ids[i] = c.MovieID
	}
	return ids
}

func TestCatalogLoad(t *testing.T) {
	m := newTestModel(t, fakeRecsRepo{}, nil)

	page := m.Page()
	if page.CatalogMessage != view.LoadingCatalogText || page.MoviesGrid.Len() != 0 {
		t.Fatalf("expected loading page, got %+v", page)
	}

	m = loaded(t, m)
	page = m.Page()
	if got := gridIDs(page.MoviesGrid); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("grid = %v", got)
	}
	if page.CatalogMessage != "" || len(page.Banners) != 0 {
		t.Errorf("unexpected message %q or banners %v", page.CatalogMessage, page.Banners)
	}
}

func TestCatalogLoadFailure(t *testing.T) {
	m := newTestModel(t, fakeRecsRepo{}, nil)
	m.catalogRepo = fakeCatalogRepo{err: fmt.Errorf("%w: %w", domain.ErrCatalogLoad, domain.ErrNetworkFailure)}

	m, cmd := update(t, m, LoadCatalogCmd(m.catalogRepo)())
	page := m.Page()
	if page.MoviesGrid.Len() != 0 {
		t.Errorf("expected zero cards, got %d", page.MoviesGrid.Len())
	}
	if len(page.Banners) != 1 || page.Banners[0].Message != catalogFailedText {
		t.Fatalf("expected one catalog banner, got %v", page.Banners)
	}
	if cmd == nil {
		t.Fatal("expected a banner expiry command")
	}

	msg := cmd()
	expire, ok := msg.(ClearBannerMsg)
	if !ok || expire.ID != page.Banners[0].ID {
		t.Fatalf("expected ClearBannerMsg for banner %d, got %#v", page.Banners[0].ID, msg)
	}
	m, _ = update(t, m, expire)
	if n := len(m.Page().Banners); n != 0 {
		t.Errorf("expected banner removed, %d left", n)
	}

	// Selection stays inert on an empty catalog
	if _, cmd := update(t, m, SelectMovieMsg{MovieID: "1"}); cmd != nil {
		t.Error("selection on a failed catalog should not fetch")
	}
}

func TestLateResponseForOlderSelectionIsDiscarded(t *testing.T) {
	recs := fakeRecsRepo{recs: map[string][]domain.Movie{
		"1": {testMovies[2]},
		"2": {testMovies[0]},
	}}
	m := loaded(t, newTestModel(t, recs, nil))

	m, fetchDune := update(t, m, SelectMovieMsg{MovieID: "1"})
	m, fetchHeat := update(t, m, SelectMovieMsg{MovieID: "2"})
	if fetchDune == nil || fetchHeat == nil {
		t.Fatal("expected a fetch per selection")
	}

	page := m.Page()
	if !page.LoadingSpinner {
		t.Error("spinner should show while a fetch is pending")
	}
	if got := page.MoviesGrid.SelectedCards(); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("highlight = %v, want [2]", got)
	}

	// Heat resolves first, Dune last
	heat, dune := fetchHeat(), fetchDune()
	m, _ = update(t, m, heat)
	m, _ = update(t, m, dune)

	if m.Result == nil || m.Result.SourceTitle != "Heat" {
		t.Fatalf("expected Heat's recommendations, got %+v", m.Result)
	}
	page = m.Page()
	if page.LoadingSpinner {
		t.Error("spinner should be hidden once the current fetch settles")
	}
	if want := `Because you're interested in: "Heat"`; page.Recommendations.SelectedMovie.Heading != want {
		t.Errorf("heading = %q", page.Recommendations.SelectedMovie.Heading)
	}
	if got := gridIDs(page.Recommendations.Grid); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("recommendations = %v", got)
	}
}

func TestSelectUnknownMovieIsNoop(t *testing.T) {
	m := loaded(t, newTestModel(t, fakeRecsRepo{}, nil))
	before := m.Selection()

	m, cmd := update(t, m, SelectMovieMsg{MovieID: "404"})
	if cmd != nil {
		t.Error("expected no fetch")
	}
	if m.Selection() != before {
		t.Errorf("selection changed: %+v -> %+v", before, m.Selection())
	}
	if len(m.Banners) != 0 {
		t.Error("expected no banner")
	}
}

func TestStaleFailureIsSilent(t *testing.T) {
	recs := fakeRecsRepo{fail: map[string]bool{"1": true}}
	m := loaded(t, newTestModel(t, recs, nil))

	m, fetchDune := update(t, m, SelectMovieMsg{MovieID: "1"})
	m, fetchHeat := update(t, m, SelectMovieMsg{MovieID: "2"})

	m, cmd := update(t, m, fetchDune())
	if cmd != nil || len(m.Banners) != 0 {
		t.Fatal("a stale failure must not surface")
	}
	if !m.Page().LoadingSpinner {
		t.Error("current fetch is still pending")
	}

	m, _ = update(t, m, fetchHeat())
	if m.Result == nil || m.Result.SourceTitle != "Heat" {
		t.Errorf("expected Heat, got %+v", m.Result)
	}
}

func TestCurrentFailureShowsBanner(t *testing.T) {
	recs := fakeRecsRepo{fail: map[string]bool{"2": true}}
	m := loaded(t, newTestModel(t, recs, nil))

	m, fetch := update(t, m, SelectMovieMsg{MovieID: "2"})
	m, cmd := update(t, m, fetch())

	page := m.Page()
	if len(page.Banners) != 1 || page.Banners[0].Message != recommendationsFailedText {
		t.Fatalf("banners = %v", page.Banners)
	}
	if page.LoadingSpinner || page.Recommendations.Visible {
		t.Error("expected no spinner and no recommendations after failure")
	}
	if cmd == nil {
		t.Error("expected banner expiry command")
	}

	// Later selections still work
	if _, cmd := update(t, m, SelectMovieMsg{MovieID: "1"}); cmd == nil {
		t.Error("expected a new fetch after failure")
	}
}

func TestBannersExpireIndependently(t *testing.T) {
	recs := fakeRecsRepo{fail: map[string]bool{"2": true}}
	m := loaded(t, newTestModel(t, recs, nil))
	for i := 0; i < 2; i++ {
		var fetch tea.Cmd
		m, fetch = update(t, m, SelectMovieMsg{MovieID: "2"})
		m, _ = update(t, m, fetch())
	}
	if len(m.Banners) != 2 {
		t.Fatalf("expected 2 banners, got %d", len(m.Banners))
	}

	second := m.Banners[1].ID
	m, _ = update(t, m, ClearBannerMsg{ID: m.Banners[0].ID})
	if len(m.Banners) != 1 || m.Banners[0].ID != second {
		t.Errorf("banners = %v", m.Banners)
	}
}

func TestCatalogErrorWithoutCategoryStillFails(t *testing.T) {
	m := newTestModel(t, fakeRecsRepo{}, nil)
	m.catalogRepo = fakeCatalogRepo{err: errors.New("connection reset")}

	m, cmd := update(t, m, LoadCatalogCmd(m.catalogRepo)())
	page := m.Page()
	if page.CatalogMessage == view.LoadingCatalogText {
		t.Fatal("page stuck on loading after a failed load")
	}
	if len(page.Banners) != 1 || page.Banners[0].Message != catalogFailedText {
		t.Errorf("banners = %v", page.Banners)
	}
	if cmd == nil {
		t.Error("expected banner expiry command")
	}
}

func TestSearchFiltersGrid(t *testing.T) {
	m := loaded(t, newTestModel(t, fakeRecsRepo{}, nil))

	m, _ = update(t, m, runes("/"))
	if m.Focus != view.FocusSearch {
		t.Fatal("expected search focus")
	}
	for _, r := range "sci" {
		m, _ = update(t, m, runes(string(r)))
	}

	page := m.Page()
	if page.SearchInput != "sci" {
		t.Errorf("query = %q", page.SearchInput)
	}
	if got := gridIDs(page.MoviesGrid); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("grid = %v, want [1 3]", got)
	}

	// Typing "q" in the search box must not quit
	m, _ = update(t, m, runes("q"))
	if m.Focus != view.FocusSearch || m.Search.Value() != "sciq" {
		t.Fatalf("q should be typed into the query, got %q", m.Search.Value())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Focus != view.FocusMovies {
		t.Error("esc should return focus to the grid")
	}
	page = m.Page()
	if page.CatalogMessage != view.NoMatchesText {
		t.Errorf("CatalogMessage = %q", page.CatalogMessage)
	}
}

func TestKeyboardSelection(t *testing.T) {
	recs := fakeRecsRepo{recs: map[string][]domain.Movie{
		"2": {testMovies[2]},
	}}
	m := loaded(t, newTestModel(t, recs, nil))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, fetch := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if fetch == nil {
		t.Fatal("expected enter to select")
	}
	if id, _ := m.controller.State().SelectedID(); id != "2" {
		t.Fatalf("selected %q, want 2", id)
	}
	m, _ = update(t, m, fetch())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus != view.FocusRecommendations {
		t.Fatal("tab should move to recommendations")
	}

	// Choosing a recommendation re-enters selection with its id
	m, fetch = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if fetch == nil {
		t.Fatal("expected recommendation card to select")
	}
	if id, _ := m.controller.State().SelectedID(); id != "3" {
		t.Errorf("selected %q, want 3", id)
	}
	if m.Focus != view.FocusMovies || m.MoviesCursor != 2 {
		t.Errorf("focus %v cursor %d, want movies grid at 2", m.Focus, m.MoviesCursor)
	}
	if m.Result != nil {
		t.Error("previous result should be cleared on a new selection")
	}
}

func TestHistoryRecordedOnCommit(t *testing.T) {
	hs, err := store.NewHistoryStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	defer hs.Close()

	m := loaded(t, newTestModel(t, fakeRecsRepo{}, hs))
	m, fetch := update(t, m, SelectMovieMsg{MovieID: "1"})
	m, record := update(t, m, fetch())
	if record == nil {
		t.Fatal("expected a history command")
	}
	m, _ = update(t, m, record())

	if got := m.Page().RecentlyViewed; !reflect.DeepEqual(got, []string{"Dune"}) {
		t.Errorf("RecentlyViewed = %v", got)
	}
}

func TestClearHistoryKey(t *testing.T) {
	hs, err := store.NewHistoryStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	defer hs.Close()

	m := loaded(t, newTestModel(t, fakeRecsRepo{}, hs))
	m, fetch := update(t, m, SelectMovieMsg{MovieID: "1"})
	m, record := update(t, m, fetch())
	m, _ = update(t, m, record())
	if len(m.History) != 1 {
		t.Fatalf("expected one history entry, got %d", len(m.History))
	}

	m, clearCmd := update(t, m, runes("x"))
	if clearCmd == nil {
		t.Fatal("expected a clear command")
	}
	m, _ = update(t, m, clearCmd())
	if len(m.Page().RecentlyViewed) != 0 {
		t.Errorf("RecentlyViewed = %v", m.Page().RecentlyViewed)
	}
	if entries, _ := hs.Recent(10); len(entries) != 0 {
		t.Errorf("store still holds %d entries", len(entries))
	}
}

func TestHistoryErrorIsLoggedOnly(t *testing.T) {
	m := newTestModel(t, fakeRecsRepo{}, nil)
	m, cmd := update(t, m, ErrMsg{Err: errors.New("disk full"), Context: "saving history"})
	if cmd != nil || len(m.Banners) != 0 {
		t.Error("history errors should not raise banners")
	}
}

func TestViewRendersPage(t *testing.T) {
	m := loaded(t, newTestModel(t, fakeRecsRepo{}, nil))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, fetch := update(t, m, SelectMovieMsg{MovieID: "1"})
	m, _ = update(t, m, fetch())

	out := m.View()
	for _, want := range []string{"Dune", "Heat", view.NoRecommendationsText} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
