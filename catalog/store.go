package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a course does not exist.
	ErrNotFound = errors.New("course not found")

	// ErrUnavailable is returned when the backing storage cannot be read.
	ErrUnavailable = errors.New("catalog store unavailable")

	// ErrDimensionMismatch is returned when an embedding's length differs
	// from the catalog's established dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Store provides catalog persistence and bulk-scan access.
//
// Implementations must be safe for concurrent reads. Writes are infrequent
// and off the query path; a scan running concurrently with an upsert may
// observe a slightly stale snapshot, but never a half-written embedding.
type Store interface {
	// GetAll returns every catalog entry for exhaustive scanning.
	GetAll(ctx context.Context) ([]Entry, error)

	// Get returns a single entry by course ID.
	Get(ctx context.Context, id string) (Entry, error)

	// Upsert inserts or replaces a course and its embedding. The first
	// stored embedding establishes the catalog dimension; later writes
	// with a different length fail with ErrDimensionMismatch.
	Upsert(ctx context.Context, course Course, embedding []float64) error

	// Count returns the number of stored courses.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
