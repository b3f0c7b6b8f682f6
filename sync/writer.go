package sync

import (
	"context"
	"fmt"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// BatchWriter provides synchronous write operations that are batched behind the scenes.
// It uses generics to provide type safety for keys and values.
type BatchWriter[K comparable, V any] struct {
	svc *batch.Service[entry[K, V], struct{}]
}

// NewBatchWriter creates a new BatchWriter with the specified options and write function.
// The writeFunc will be called with batches of key-value pairs to write. A nil
// opts uses the batch package defaults.
func NewBatchWriter[K comparable, V any](opts *batch.Options, writeFunc WriteFunc[K, V]) (*BatchWriter[K, V], error) {
	if writeFunc == nil {
		return nil, fmt.Errorf("sync: nil WriteFunc")
	}

	svc, err := batch.New(writeBatch(writeFunc), opts)
	if err != nil {
		return nil, err
	}

	return &BatchWriter[K, V]{svc: svc}, nil
}

// writeBatch turns a WriteFunc into a BatchFunc. When a key is set more than
// once in a batch, the last value wins.
func writeBatch[K comparable, V any](writeFunc WriteFunc[K, V]) batch.BatchFunc[entry[K, V], struct{}] {
	return func(ctx context.Context, entries []entry[K, V]) ([]struct{}, error) {
		data := make(map[K]V, len(entries))
		for _, e := range entries {
			data[e.key] = e.value
		}

		if err := writeFunc(ctx, data); err != nil {
			return nil, err
		}
		return make([]struct{}, len(entries)), nil
	}
}

// Set writes a key-value pair. It blocks until the batched operation completes
// or the context is cancelled. Multiple concurrent Set calls will be batched
// together according to the batch configuration.
//
// A cancelled Set may still be written, since the pair stays in its batch.
func (w *BatchWriter[K, V]) Set(ctx context.Context, key K, value V) error {
	if ctx == nil {
		ctx = context.Background()
	}

	_, err := w.svc.Call(ctx, entry[K, V]{key: key, value: value})
	return err
}

// Close gracefully shuts down the BatchWriter and waits for pending operations to complete.
func (w *BatchWriter[K, V]) Close() {
	_ = w.svc.Shutdown(context.Background())
}
