package batch

import "time"

// Default values used when a Config or Options field is left at zero.
// These values can be tuned based on performance requirements.
const (
	// DefaultMaxBatchSize is the default maximum number of items per batch.
	DefaultMaxBatchSize = 64

	// DefaultMaxLatency is the default maximum time a partial batch may wait
	// before it is flushed.
	DefaultMaxLatency = 100 * time.Millisecond
)
