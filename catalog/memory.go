package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory catalog store for development and testing.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	dimension int
}

// NewMemoryStore creates a new in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// GetAll returns every catalog entry, ordered by course ID for
// reproducible scans.
func (s *MemoryStore) GetAll(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Course.ID < entries[j].Course.ID
	})
	return entries, nil
}

// Get returns a single entry by course ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Upsert inserts or replaces a course and its embedding.
func (s *MemoryStore) Upsert(ctx context.Context, course Course, embedding []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(embedding) > 0 {
		if s.dimension == 0 {
			s.dimension = len(embedding)
		} else if len(embedding) != s.dimension {
			return ErrDimensionMismatch
		}
	}

	// Copy so callers cannot mutate stored state afterwards.
	emb := make([]float64, len(embedding))
	copy(emb, embedding)
	s.entries[course.ID] = Entry{Course: course, Embedding: emb}
	return nil
}

// Count returns the number of stored courses.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Dimension returns the established embedding dimension, 0 if no
// embedding has been stored yet.
func (s *MemoryStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
