package batch

import (
	"sync"
	"sync/atomic"
	"time"
)

// StatsCollector defines the interface for collecting metrics from the batch worker.
// Implementations can store metrics in memory, send to monitoring systems, or export to various formats.
// The StatsCollector is optional - if not provided, no statistics are collected.
type StatsCollector interface {
	// RecordBatchStart is called when a batch is flushed, with the reason it
	// was closed.
	RecordBatchStart(batchSize int, reason FlushReason)

	// RecordBatchComplete is called when every item of a batch has been
	// resolved. duration includes any fallback runs.
	RecordBatchComplete(batchSize int, duration time.Duration)

	// RecordItemProcessed is called for each successfully processed item.
	RecordItemProcessed()

	// RecordItemError is called for each item resolved with an error.
	RecordItemError()

	// RecordAggregateFailure is called when the BatchFunc fails for a whole
	// batch, before falling back to running each item on its own.
	RecordAggregateFailure()

	// RecordFallbackRun is called for each single-item fallback run.
	RecordFallbackRun()

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about a Service.
type Stats struct {
	// BatchesStarted is the total number of batches that have been flushed.
	BatchesStarted uint64

	// FullFlushes is the number of batches closed because they were full.
	FullFlushes uint64

	// TimeoutFlushes is the number of batches closed by MaxLatency.
	TimeoutFlushes uint64

	// ShutdownFlushes is the number of batches closed because every handle
	// was closed.
	ShutdownFlushes uint64

	// BatchesCompleted is the total number of batches whose items have all been resolved.
	BatchesCompleted uint64

	// ItemsProcessed is the total number of items resolved successfully.
	ItemsProcessed uint64

	// ItemErrors is the total number of items resolved with an error.
	ItemErrors uint64

	// AggregateFailures is the number of batches that failed as a whole.
	AggregateFailures uint64

	// FallbackRuns is the number of single-item fallback runs.
	FallbackRuns uint64

	// TotalProcessingTime is the cumulative time spent running all batches.
	TotalProcessingTime time.Duration

	// MinBatchTime is the minimum time taken to process a batch.
	MinBatchTime time.Duration

	// MaxBatchTime is the maximum time taken to process a batch.
	MaxBatchTime time.Duration

	// MinBatchSize is the smallest batch size processed.
	MinBatchSize int

	// MaxBatchSize is the largest batch size processed.
	MaxBatchSize int

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector is a stats collector that discards all metrics.
// It implements the StatsCollector interface but performs no operations.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordBatchStart implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchStart(batchSize int, reason FlushReason) {}

// RecordBatchComplete implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {}

// RecordItemProcessed implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordItemProcessed() {}

// RecordItemError implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordItemError() {}

// RecordAggregateFailure implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordAggregateFailure() {}

// RecordFallbackRun implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordFallbackRun() {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a simple in-memory implementation of StatsCollector.
// It maintains counters and timing information about flushed batches.
// All operations are thread-safe.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats

	// Atomic counters for lock-free updates
	batchesStarted    uint64
	fullFlushes       uint64
	timeoutFlushes    uint64
	shutdownFlushes   uint64
	batchesCompleted  uint64
	itemsProcessed    uint64
	itemErrors        uint64
	aggregateFailures uint64
	fallbackRuns      uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      time.Now(),
			LastUpdateTime: time.Now(),
			MinBatchTime:   time.Duration(1<<63 - 1), // Max duration as initial value
		},
	}
}

// RecordBatchStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchStart(batchSize int, reason FlushReason) {
	atomic.AddUint64(&b.batchesStarted, 1)
	switch reason {
	case FlushFull:
		atomic.AddUint64(&b.fullFlushes, 1)
	case FlushTimeout:
		atomic.AddUint64(&b.timeoutFlushes, 1)
	case FlushShutdown:
		atomic.AddUint64(&b.shutdownFlushes, 1)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()

	if batchSize < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = batchSize
	}
	if batchSize > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = batchSize
	}
}

// RecordBatchComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {
	atomic.AddUint64(&b.batchesCompleted, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalProcessingTime += duration

	if duration < b.stats.MinBatchTime {
		b.stats.MinBatchTime = duration
	}
	if duration > b.stats.MaxBatchTime {
		b.stats.MaxBatchTime = duration
	}
}

// RecordItemProcessed implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItemProcessed() {
	atomic.AddUint64(&b.itemsProcessed, 1)
}

// RecordItemError implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItemError() {
	atomic.AddUint64(&b.itemErrors, 1)
}

// RecordAggregateFailure implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordAggregateFailure() {
	atomic.AddUint64(&b.aggregateFailures, 1)
}

// RecordFallbackRun implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordFallbackRun() {
	atomic.AddUint64(&b.fallbackRuns, 1)
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Copy the stats and update atomic values
	stats := b.stats
	stats.BatchesStarted = atomic.LoadUint64(&b.batchesStarted)
	stats.FullFlushes = atomic.LoadUint64(&b.fullFlushes)
	stats.TimeoutFlushes = atomic.LoadUint64(&b.timeoutFlushes)
	stats.ShutdownFlushes = atomic.LoadUint64(&b.shutdownFlushes)
	stats.BatchesCompleted = atomic.LoadUint64(&b.batchesCompleted)
	stats.ItemsProcessed = atomic.LoadUint64(&b.itemsProcessed)
	stats.ItemErrors = atomic.LoadUint64(&b.itemErrors)
	stats.AggregateFailures = atomic.LoadUint64(&b.aggregateFailures)
	stats.FallbackRuns = atomic.LoadUint64(&b.fallbackRuns)

	// Fix min batch time if no batches completed
	if stats.BatchesCompleted == 0 {
		stats.MinBatchTime = 0
	}

	return stats
}

// AverageBatchTime returns the average time taken to process a batch.
// Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchTime() time.Duration {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.BatchesCompleted)
}

// AverageBatchSize returns the average number of items per completed batch.
// Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchSize() float64 {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return float64(s.ItemsProcessed+s.ItemErrors) / float64(s.BatchesCompleted)
}

// ErrorRate returns the percentage of items that encountered errors.
// Returns 0 if no items have been processed.
func (s *Stats) ErrorRate() float64 {
	total := s.ItemsProcessed + s.ItemErrors
	if total == 0 {
		return 0
	}
	return float64(s.ItemErrors) / float64(total) * 100
}

// Duration returns the total duration since statistics collection started.
func (s *Stats) Duration() time.Duration {
	return s.LastUpdateTime.Sub(s.StartTime)
}

// FlushReason is the condition that closed a batch.
type FlushReason int

const (
	// FlushFull means the batch reached MaxBatchSize.
	FlushFull FlushReason = iota
	// FlushTimeout means MaxLatency elapsed since the first item was accepted.
	FlushTimeout
	// FlushShutdown means every handle was closed.
	FlushShutdown
)

// String returns the string representation of the flush reason.
func (r FlushReason) String() string {
	switch r {
	case FlushFull:
		return "full"
	case FlushTimeout:
		return "timeout"
	case FlushShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}
