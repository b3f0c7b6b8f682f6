package sync

import (
	"context"
	"fmt"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// BatchReader provides synchronous read operations that are batched behind the scenes.
// It uses generics to provide type safety for keys and values.
type BatchReader[K comparable, V any] struct {
	svc *batch.Service[K, lookup[V]]
}

// NewBatchReader creates a new BatchReader with the specified options and read function.
// The readFunc will be called with batches of keys to fetch. A nil opts uses the
// batch package defaults.
func NewBatchReader[K comparable, V any](opts *batch.Options, readFunc ReadFunc[K, V]) (*BatchReader[K, V], error) {
	if readFunc == nil {
		return nil, fmt.Errorf("sync: nil ReadFunc")
	}

	svc, err := batch.New(readBatch(readFunc), opts)
	if err != nil {
		return nil, err
	}

	return &BatchReader[K, V]{svc: svc}, nil
}

// readBatch turns a ReadFunc into a BatchFunc. Duplicate keys within a batch
// are only read once.
func readBatch[K comparable, V any](readFunc ReadFunc[K, V]) batch.BatchFunc[K, lookup[V]] {
	return func(ctx context.Context, keys []K) ([]lookup[V], error) {
		distinct := make([]K, 0, len(keys))
		seen := make(map[K]struct{}, len(keys))
		for _, key := range keys {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				distinct = append(distinct, key)
			}
		}

		values, err := readFunc(ctx, distinct)
		if err != nil {
			return nil, err
		}

		result := make([]lookup[V], len(keys))
		for i, key := range keys {
			value, found := values[key]
			result[i] = lookup[V]{value: value, found: found}
		}
		return result, nil
	}
}

// Get retrieves a value by key. It blocks until the batched operation completes
// or the context is cancelled. Multiple concurrent Get calls will be batched
// together according to the batch configuration.
//
// If the read fails, the error is a *batch.ItemError wrapping the error
// returned by the ReadFunc when the key was read on its own.
func (r *BatchReader[K, V]) Get(ctx context.Context, key K) (V, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := r.svc.Call(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	if !res.found {
		var zero V
		return zero, ErrKeyNotFound
	}
	return res.value, nil
}

// Close gracefully shuts down the BatchReader and waits for pending operations to complete.
func (r *BatchReader[K, V]) Close() {
	_ = r.svc.Shutdown(context.Background())
}
