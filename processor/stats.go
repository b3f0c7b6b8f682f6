package processor

import (
	"context"
	"time"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// Stats wraps a BatchFunc and collects statistics about its execution.
// It tracks processing times, request counts, and failures of the wrapped
// function itself, including the single-request runs made after a batch fails.
type Stats[Req, Resp any] struct {
	// Func is the wrapped BatchFunc that does the actual work.
	Func batch.BatchFunc[Req, Resp]

	// Stats is used to collect processing metrics.
	// If nil, no statistics are collected.
	Stats batch.StatsCollector

	// RecordAsBatch determines whether to record every call with
	// RecordBatchComplete. If false, only request-level metrics are recorded.
	RecordAsBatch bool
}

// Run implements the Processor interface by delegating to the wrapped
// BatchFunc and collecting statistics about the call.
func (p *Stats[Req, Resp]) Run(ctx context.Context, reqs []Req) ([]Resp, error) {
	if p.Func == nil {
		return nil, ErrNilFunc
	}

	if p.Stats == nil {
		// No stats collector, just pass through
		return p.Func(ctx, reqs)
	}

	startTime := time.Now()

	result, err := p.Func(ctx, reqs)

	switch {
	case err == nil:
		for range result {
			p.Stats.RecordItemProcessed()
		}
	case len(reqs) == 1:
		p.Stats.RecordItemError()
	default:
		p.Stats.RecordAggregateFailure()
	}

	if p.RecordAsBatch {
		p.Stats.RecordBatchComplete(len(reqs), time.Since(startTime))
	}

	return result, err
}

// WrapWithStats wraps a BatchFunc with statistics collection.
// This is a convenience function for creating a Stats processor.
//
// Example:
//
//	stats := batch.NewBasicStatsCollector()
//	fn := processor.WrapWithStats(verify, stats, false)
//
//	// Later, get statistics
//	currentStats := stats.GetStats()
func WrapWithStats[Req, Resp any](fn batch.BatchFunc[Req, Resp], stats batch.StatsCollector, recordAsBatch bool) batch.BatchFunc[Req, Resp] {
	p := &Stats[Req, Resp]{
		Func:          fn,
		Stats:         stats,
		RecordAsBatch: recordAsBatch,
	}
	return p.Run
}
