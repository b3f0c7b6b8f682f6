// Package sync provides synchronous, blocking APIs for batch operations built on top
// of the batch package's Service. It offers type-safe, generic interfaces
// for batching read and write operations while making the calls appear synchronous
// to the caller.
//
// The main types are BatchReader and BatchWriter, which provide Get and Set methods
// that block until the operation completes. Behind the scenes, these operations are
// batched together for efficiency.
//
// Basic usage for reading:
//
//	// Define a function that performs batched reads
//	readFunc := func(ctx context.Context, keys []string) (map[string]string, error) {
//		// Perform batched database read, API call, etc.
//		return db.BatchGet(ctx, keys)
//	}
//
//	// Create a batch reader
//	opts := &batch.Options{
//		Config: batch.NewConstantConfig(&batch.ConfigValues{
//			MaxBatchSize: 10,
//			MaxLatency:   50 * time.Millisecond,
//		}),
//	}
//	reader, err := sync.NewBatchReader(opts, readFunc)
//	if err != nil {
//		return err
//	}
//	defer reader.Close()
//
//	// Make synchronous calls that are batched behind the scenes
//	value, err := reader.Get(ctx, "key1")
//
// Basic usage for writing:
//
//	// Define a function that performs batched writes
//	writeFunc := func(ctx context.Context, data map[string]string) error {
//		// Perform batched database write, API call, etc.
//		return db.BatchSet(ctx, data)
//	}
//
//	// Create a batch writer
//	writer, err := sync.NewBatchWriter(opts, writeFunc)
//
//	// Make synchronous calls that are batched behind the scenes
//	err = writer.Set(ctx, "key1", "value1")
//
// Reads can be cached with CachedReader, an LRU cache in front of a BatchReader:
//
//	cached, err := sync.NewCachedReader(reader, 1024, time.Minute)
//	value, err := cached.Get(ctx, "key1") // later Gets of key1 skip the reader
//
// The sync package handles:
//   - Per-request context cancellation
//   - Request queuing and batching
//   - Error propagation: a failed batch is retried one request at a time, so an
//     error only reaches the callers whose own request fails
//   - Graceful shutdown
//
// This package is ideal for scenarios where you want the efficiency of batching
// but need a synchronous API, such as:
//   - Caching layers
//   - Database access patterns
//   - External API calls that support bulk operations
package sync
