package sync

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by BatchReader.Get for a key that the ReadFunc
// left out of its result.
var ErrKeyNotFound = errors.New("key not found")

// ReadFunc is a user-provided function that performs a batched read operation.
// It receives a slice of distinct keys to fetch and returns a map of results.
// Missing keys are omitted from the result map.
type ReadFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// WriteFunc is a user-provided function that performs a batched write operation.
// It receives a map of key-value pairs to write and returns an error if the
// batch fails. A failed batch is retried one pair at a time, so that only the
// Set calls whose own pair fails see an error.
type WriteFunc[K comparable, V any] func(ctx context.Context, data map[K]V) error

// lookup is the result of reading a single key.
type lookup[V any] struct {
	value V
	found bool
}

// entry is a single key-value pair to write.
type entry[K comparable, V any] struct {
	key   K
	value V
}
