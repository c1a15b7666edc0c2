package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
	"golang.org/x/text/cases"
)

// Filter returns the movies whose title, genre or director contains query,
// ignoring case. The result keeps catalog order. An empty query returns the
// whole catalog.
func Filter(c *Catalog, query string) []*domain.Movie {
	all := c.Movies()
	if query == "" {
		return all
	}

	folder := cases.Fold()
	needle := folder.String(query)

	out := make([]*domain.Movie, 0, len(all))
	for _, m := range all {
		if matches(m, needle, folder) {
			out = append(out, m)
		}
	}
	return out
}

// matches reports whether a case-folded needle occurs in any searchable field
func matches(m *domain.Movie, needle string, folder cases.Caser) bool {
	for _, field := range [...]string{m.Title, m.Genre, m.Director} {
		if strings.Contains(folder.String(field), needle) {
			return true
		}
	}
	return false
}

// Suggest returns up to limit titles that fuzzily resemble query, best first.
// Used as a hint when Filter comes back empty; it never changes what is rendered
// in the grid.
func Suggest(c *Catalog, query string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 || c.Len() == 0 {
		return nil
	}

	titles := make([]string, 0, c.Len())
	for _, m := range c.Movies() {
		titles = append(titles, m.Title)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	seen := make(map[string]bool, len(ranks))
	var out []string
	for _, r := range ranks {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == limit {
			break
		}
	}
	return out
}
