package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNetworkFailure indicates a transport error or a non-2xx response
	ErrNetworkFailure = errors.New("recommendation server request failed")

	// ErrCatalogLoad indicates the movie list could not be loaded
	ErrCatalogLoad = errors.New("failed to load movies")

	// ErrRecommendationFetch indicates recommendations for a movie could not be loaded
	ErrRecommendationFetch = errors.New("failed to load recommendations")

	// ErrMovieNotFound indicates a selection referenced an id absent from the catalog
	ErrMovieNotFound = errors.New("movie not found")
)
