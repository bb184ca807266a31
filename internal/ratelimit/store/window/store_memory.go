package window

import (
	"context"
	"sync"
	"time"

	"storeguard/internal/ratelimit/models"
)

// InMemoryStore keeps fixed-window counters in a process-local map.
// Construct one per limiter; there is no package-level instance.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*models.Entry
}

// NewInMemoryStore creates an empty in-memory window store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]*models.Entry),
	}
}

// Consume applies one request to key's window at now.
// A missing or elapsed entry is reset to count 1. An exhausted window denies
// without incrementing.
func (s *InMemoryStore) Consume(_ context.Context, key string, limit int, window time.Duration, now time.Time) (models.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		entry = &models.Entry{Key: key}
		s.entries[key] = entry
	}
	allowed := tryConsume(entry, limit, window, now)
	return *entry, allowed, nil
}

func tryConsume(entry *models.Entry, limit int, window time.Duration, now time.Time) bool {
	if entry.Count == 0 || entry.Expired(now) {
		entry.Count = 1
		entry.ResetAt = now.Add(window)
		return true
	}
	if entry.Count >= limit {
		return false
	}
	entry.Count++
	return true
}

// Get returns the entry for key without modifying it.
func (s *InMemoryStore) Get(_ context.Context, key string) (models.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return models.Entry{}, false, nil
	}
	return *entry, true, nil
}

// Delete removes the entry for key.
func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// DeleteAll removes every entry.
func (s *InMemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// PruneExpired drops entries whose window elapsed before now and returns how
// many were removed. Pruning never changes limiter decisions.
func (s *InMemoryStore) PruneExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked keys.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
