package store

import (
	"sort"

	"github.com/mmcdole/marquee/internal/domain"
)

// sortedEntries returns entries newest first; ties break on movie id
func sortedEntries(m map[string]domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ViewedAt.Equal(out[j].ViewedAt) {
			return out[i].ViewedAt.After(out[j].ViewedAt)
		}
		return out[i].MovieID < out[j].MovieID
	})
	return out
}
