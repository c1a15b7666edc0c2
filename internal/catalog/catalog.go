// Package catalog holds the in-memory movie list and the pure filters over it.
package catalog

import "github.com/mmcdole/marquee/internal/domain"

// Catalog is an ordered, read-only set of movies loaded once per session.
type Catalog struct {
	movies []domain.Movie
	byID   map[string]int
}

// Empty returns a catalog with no movies (the state before or after a failed load)
func Empty() *Catalog {
	return &Catalog{byID: map[string]int{}}
}

// New copies movies into a catalog. Order is preserved; for duplicate ids
// the first occurrence wins on lookup.
func New(movies []domain.Movie) *Catalog {
	c := &Catalog{
		movies: make([]domain.Movie, len(movies)),
		byID:   make(map[string]int, len(movies)),
	}
	copy(c.movies, movies)
	for i, m := range c.movies {
		if _, dup := c.byID[m.ID]; !dup {
			c.byID[m.ID] = i
		}
	}
	return c
}

// Len returns the number of movies
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.movies)
}

// Movies returns read-only references to every movie in catalog order
func (c *Catalog) Movies() []*domain.Movie {
	if c == nil {
		return nil
	}
	out := make([]*domain.Movie, len(c.movies))
	for i := range c.movies {
		out[i] = &c.movies[i]
	}
	return out
}

// Lookup returns the movie with the given id
func (c *Catalog) Lookup(id string) (*domain.Movie, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.movies[i], true
}
