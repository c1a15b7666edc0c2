package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketHistory = []byte("history")
)

// maxEntries bounds what is kept on disk regardless of the display limit
const maxEntries = 100

// HistoryStore implements domain.HistoryStore using BoltDB.
// Keys are movie ids; values are JSON-encoded entries.
type HistoryStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// Memory copy of every entry, keyed by movie id
	cache map[string]domain.HistoryEntry
}

// NewHistoryStore opens (or creates) the history database for serverURL
// under baseCacheDir. An empty baseCacheDir keeps history in memory only.
func NewHistoryStore(baseCacheDir, serverURL string) (*HistoryStore, error) {
	if baseCacheDir == "" {
		return &HistoryStore{cache: make(map[string]domain.HistoryEntry)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	s := &HistoryStore{db: db, cache: make(map[string]domain.HistoryEntry)}

	// Create bucket and warm the memory cache
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketHistory)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var entry domain.HistoryEntry
			if json.Unmarshal(v, &entry) == nil {
				s.cache[string(k)] = entry
			}
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores entry, replacing any previous entry for the same movie
func (s *HistoryStore) Record(entry domain.HistoryEntry) error {
	if entry.MovieID == "" {
		return fmt.Errorf("history entry without movie id")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[entry.MovieID] = entry
	evicted := s.evictLocked()
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		for _, id := range evicted {
			if err := b.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return b.Put([]byte(entry.MovieID), data)
	})
}

// evictLocked drops the oldest entries beyond maxEntries and returns their ids
func (s *HistoryStore) evictLocked() []string {
	if len(s.cache) <= maxEntries {
		return nil
	}
	sorted := sortedEntries(s.cache)
	var evicted []string
	for _, e := range sorted[maxEntries:] {
		delete(s.cache, e.MovieID)
		evicted = append(evicted, e.MovieID)
	}
	return evicted
}

// Recent returns up to limit entries, newest first
func (s *HistoryStore) Recent(limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	sorted := sortedEntries(s.cache)
	s.mu.RUnlock()

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// Clear removes all history
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string]domain.HistoryEntry)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}
		var keys [][]byte
		b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
