// Package view renders the session state into a page model. Rendering is a
// pure function of its input; the terminal shell turns the page into text.
package view

// Element ids of the page regions the shell populates
const (
	ElementMoviesGrid             = "moviesGrid"
	ElementSearchInput            = "searchInput"
	ElementRecommendationsSection = "recommendationsSection"
	ElementSelectedMovie          = "selectedMovie"
	ElementRecommendationsGrid    = "recommendationsGrid"
	ElementLoadingSpinner         = "loadingSpinner"
	ElementErrorBanner            = "errorBanner"
)

// Fixed page copy
const (
	NoRecommendationsText = "No recommendations available for this movie."
	RecommendationsLead   = "Here are some movies you might also enjoy:"
	LoadingCatalogText    = "Loading movies..."
	NoMatchesText         = "No movies match your search."
)

// Card is one rendered movie tile
type Card struct {
	MovieID     string
	Title       string
	Genre       string
	Year        string
	Description string
	Director    string
	Selected    bool // highlight: this movie is the active selection
	Focused     bool // keyboard cursor
}

// Grid is a rendered list of cards
type Grid struct {
	ID    string
	Cards []Card
}

// Len returns the number of cards
func (g Grid) Len() int { return len(g.Cards) }

// SelectedCards returns the ids of highlighted cards
func (g Grid) SelectedCards() []string {
	var ids []string
	for _, c := range g.Cards {
		if c.Selected {
			ids = append(ids, c.MovieID)
		}
	}
	return ids
}

// Header is the selected-movie heading above the recommendations
type Header struct {
	Heading string
	Lead    string
}

// RecommendationsSection is the panel showing the committed result
type RecommendationsSection struct {
	Visible       bool
	SelectedMovie Header
	Grid          Grid
	EmptyMessage  string
}

// Banner is a transient error message
type Banner struct {
	ID      int
	Message string
}

// Page is the complete visible output for one render
type Page struct {
	SearchInput     string
	MoviesGrid      Grid
	CatalogMessage  string   // replaces the grid while loading or when nothing matches
	Suggestions     []string // "did you mean" titles when nothing matches
	Recommendations RecommendationsSection
	LoadingSpinner  bool
	Banners         []Banner
	RecentlyViewed  []string
}

// Visible reports whether the region with the given element id is shown
func (p Page) Visible(id string) bool {
	switch id {
	case ElementSearchInput:
		return true
	case ElementMoviesGrid:
		return p.CatalogMessage == ""
	case ElementRecommendationsSection, ElementSelectedMovie:
		return p.Recommendations.Visible
	case ElementRecommendationsGrid:
		return p.Recommendations.Visible && p.Recommendations.Grid.Len() > 0
	case ElementLoadingSpinner:
		return p.LoadingSpinner
	case ElementErrorBanner:
		return len(p.Banners) > 0
	}
	return false
}
