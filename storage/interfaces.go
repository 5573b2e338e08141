package storage

import (
	"context"
	"fmt"

	"github.com/poiesic/vecseed/core"
)

// DefaultUpsertBatchSize is the number of vectors written per sub-batch
// when callers pass a non-positive batch size.
const DefaultUpsertBatchSize = 2

// VectorIndex is a named collection of embedding vectors.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// EnsureIndex creates the named index if it does not exist.
	// Calling it for an existing index is a no-op.
	EnsureIndex(ctx context.Context, name string) error

	// HasVectors reports whether the index holds at least one vector.
	// A missing index reports false.
	HasVectors(ctx context.Context, name string) (bool, error)

	// Upsert writes vectors in sequential sub-batches of batchSize. Each
	// sub-batch is a separate write; a failing sub-batch stops the call with
	// an *IndexWriteError and leaves earlier sub-batches in place.
	Upsert(ctx context.Context, name string, vectors []core.Vector, batchSize int) error

	// Count returns the number of vectors stored in the index.
	Count(ctx context.Context, name string) (int, error)

	// Close releases the underlying storage resources.
	Close() error
}

// SubBatches splits n items into consecutive [start, end) ranges of at most
// size items. A non-positive size selects DefaultUpsertBatchSize.
func SubBatches(n, size int) [][2]int {
	if size <= 0 {
		size = DefaultUpsertBatchSize
	}
	ranges := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		ranges = append(ranges, [2]int{start, min(start+size, n)})
	}
	return ranges
}

// ValidateVectors checks that every vector has an ID and values of equal length.
// It returns the shared dimension.
func ValidateVectors(vectors []core.Vector) (int, error) {
	dim := 0
	for i, v := range vectors {
		if v.ID == "" || len(v.Values) == 0 {
			return 0, fmt.Errorf("%w: vector %d", ErrInvalidVector, i)
		}
		if dim == 0 {
			dim = len(v.Values)
		} else if len(v.Values) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d values, expected %d", ErrDimensionMismatch, i, len(v.Values), dim)
		}
	}
	return dim, nil
}
