package domain

// HistoryStore persists recently viewed selections across sessions.
type HistoryStore interface {
	// Record adds an entry, replacing any older entry for the same movie
	Record(entry HistoryEntry) error

	// Recent returns up to limit entries, newest first
	Recent(limit int) ([]HistoryEntry, error)

	// Clear removes every entry
	Clear() error

	Close() error
}
