package recsapi

import "github.com/mmcdole/marquee/internal/domain"

// MapMovie converts a wire movie to the domain type
func MapMovie(m Movie) domain.Movie {
	return domain.Movie{
		ID:          string(m.MovieID),
		Title:       m.Title,
		Genre:       m.Genre,
		Year:        m.Year,
		Description: m.Description,
		Director:    m.Director,
	}
}

// MapMovies converts a list of wire movies, keeping order
func MapMovies(items []Movie) []domain.Movie {
	out := make([]domain.Movie, len(items))
	for i, m := range items {
		out[i] = MapMovie(m)
	}
	return out
}

// MapRecommendations converts a recommendations response
func MapRecommendations(resp RecommendationsResponse) domain.RecommendationResult {
	return domain.RecommendationResult{
		SourceTitle:     resp.MovieTitle,
		Recommendations: MapMovies(resp.Recommendations),
	}
}
