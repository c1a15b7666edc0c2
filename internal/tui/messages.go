package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/selection"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogLoadedMsg signals that the movie list has been loaded
type CatalogLoadedMsg struct {
	Movies []domain.Movie
}

// SelectMovieMsg requests selection of a movie by id
type SelectMovieMsg struct {
	MovieID string
}

// RecommendationsSettledMsg carries a finished recommendation fetch,
// successful or not, stamped with the ticket it was issued under
type RecommendationsSettledMsg struct {
	Outcome selection.Outcome
}

// ClearBannerMsg removes one banner once its timeout elapses
type ClearBannerMsg struct {
	ID int
}

// HistoryLoadedMsg carries the recently viewed list
type HistoryLoadedMsg struct {
	Entries []domain.HistoryEntry
}
