package domain

import (
	"strconv"
	"time"
)

// Movie is a single catalog entry as served by the recommendation server.
// Movies are immutable once loaded; the catalog owns them and everything
// else holds read-only pointers obtained by id lookup.
type Movie struct {
	ID          string `json:"movie_id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	Director    string `json:"director"`
}

// YearLabel returns the release year for display, or "" when unknown
func (m Movie) YearLabel() string {
	if m.Year <= 0 {
		return ""
	}
	return strconv.Itoa(m.Year)
}

// RecommendationResult is the server's answer for one selected movie.
// It lives for a single render cycle and is replaced wholesale by the next one.
type RecommendationResult struct {
	SourceTitle     string
	Recommendations []Movie
}

// IsEmpty reports whether the server returned no recommendations
func (r RecommendationResult) IsEmpty() bool {
	return len(r.Recommendations) == 0
}

// HistoryEntry records a selection whose recommendations were shown
type HistoryEntry struct {
	MovieID  string    `json:"movie_id"`
	Title    string    `json:"title"`
	ViewedAt time.Time `json:"viewed_at"`
}
