package view

import (
	"fmt"

	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/selection"
)

// CatalogStatus describes the catalog load lifecycle
type CatalogStatus int

const (
	CatalogLoading CatalogStatus = iota
	CatalogLoaded
	CatalogFailed
)

// Focus identifies which grid owns the keyboard cursor
type Focus int

const (
	FocusSearch Focus = iota
	FocusMovies
	FocusRecommendations
)

// suggestionLimit caps the "did you mean" hint
const suggestionLimit = 3

// Input is everything a render depends on
type Input struct {
	Catalog       *catalog.Catalog
	CatalogStatus CatalogStatus
	Query         string
	Selection     selection.Snapshot
	Result        *domain.RecommendationResult // latest committed result, nil if none
	Banners       []Banner
	History       []domain.HistoryEntry

	Focus           Focus
	MoviesCursor    int
	RecommendCursor int
}

// Render produces the page for in. It has no side effects.
func Render(in Input) Page {
	page := Page{
		SearchInput:     in.Query,
		MoviesGrid:      RenderMoviesGrid(in),
		Recommendations: RenderRecommendations(in),
		LoadingSpinner:  in.Selection.Pending,
		Banners:         append([]Banner(nil), in.Banners...),
	}

	switch {
	case in.CatalogStatus == CatalogLoading:
		page.CatalogMessage = LoadingCatalogText
	case in.CatalogStatus == CatalogLoaded && page.MoviesGrid.Len() == 0 && in.Query != "":
		page.CatalogMessage = NoMatchesText
		page.Suggestions = catalog.Suggest(in.Catalog, in.Query, suggestionLimit)
	}

	for _, h := range in.History {
		page.RecentlyViewed = append(page.RecentlyViewed, h.Title)
	}

	return page
}

// RenderMoviesGrid renders the filtered catalog. A catalog that is not
// loaded renders zero cards.
func RenderMoviesGrid(in Input) Grid {
	grid := Grid{ID: ElementMoviesGrid}
	if in.CatalogStatus != CatalogLoaded {
		return grid
	}

	movies := catalog.Filter(in.Catalog, in.Query)
	grid.Cards = make([]Card, len(movies))
	for i, m := range movies {
		grid.Cards[i] = cardFor(m, in.Selection)
		grid.Cards[i].Focused = in.Focus == FocusMovies && i == in.MoviesCursor
	}
	return grid
}

// RenderRecommendations renders the panel for the latest committed result
func RenderRecommendations(in Input) RecommendationsSection {
	section := RecommendationsSection{
		Grid: Grid{ID: ElementRecommendationsGrid},
	}
	if in.Result == nil {
		return section
	}

	section.Visible = true
	section.SelectedMovie = Header{
		Heading: fmt.Sprintf("Because you're interested in: \"%s\"", in.Result.SourceTitle),
		Lead:    RecommendationsLead,
	}

	if in.Result.IsEmpty() {
		section.EmptyMessage = NoRecommendationsText
		return section
	}

	section.Grid.Cards = make([]Card, len(in.Result.Recommendations))
	for i := range in.Result.Recommendations {
		card := cardFor(&in.Result.Recommendations[i], selection.Snapshot{})
		card.Focused = in.Focus == FocusRecommendations && i == in.RecommendCursor
		section.Grid.Cards[i] = card
	}
	return section
}

func cardFor(m *domain.Movie, sel selection.Snapshot) Card {
	return Card{
		MovieID:     m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		Year:        m.YearLabel(),
		Description: m.Description,
		Director:    m.Director,
		Selected:    sel.Selected && sel.SelectedID == m.ID,
	}
}
