package domain

import "context"

// CatalogRepository loads the full movie list (implemented by the server client)
type CatalogRepository interface {
	GetMovies(ctx context.Context) ([]Movie, error)
}

// RecommendationRepository fetches recommendations for one movie.
// Implementations need not support abort; callers discard stale results.
type RecommendationRepository interface {
	GetRecommendations(ctx context.Context, movieID string) (RecommendationResult, error)
}
