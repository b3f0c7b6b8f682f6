package batch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelStatsCollector records batch metrics with OpenTelemetry instruments,
// and keeps a BasicStatsCollector so that GetStats still works.
//
// Metrics:
//   - batch_flushes_total: counter of flushed batches, by reason
//   - batch_items_total: counter of resolved items, by outcome (ok, error)
//   - batch_aggregate_failures_total: counter of batches that failed as a whole
//   - batch_fallback_runs_total: counter of single-item fallback runs
//   - batch_size: histogram of flushed batch sizes
//   - batch_duration_seconds: histogram of batch durations, fallback included
type OTelStatsCollector struct {
	*BasicStatsCollector

	flushes           metric.Int64Counter
	items             metric.Int64Counter
	aggregateFailures metric.Int64Counter
	fallbackRuns      metric.Int64Counter
	batchSize         metric.Int64Histogram
	batchDuration     metric.Float64Histogram

	okItems    metric.AddOption
	errorItems metric.AddOption
}

// NewOTelStatsCollector creates the instruments on meter.
func NewOTelStatsCollector(meter metric.Meter) (*OTelStatsCollector, error) {
	var (
		c   = &OTelStatsCollector{BasicStatsCollector: NewBasicStatsCollector()}
		err error
	)

	if c.flushes, err = meter.Int64Counter("batch_flushes_total",
		metric.WithDescription("Total number of flushed batches"),
		metric.WithUnit("{batch}"),
	); err != nil {
		return nil, err
	}
	if c.items, err = meter.Int64Counter("batch_items_total",
		metric.WithDescription("Total number of resolved items"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, err
	}
	if c.aggregateFailures, err = meter.Int64Counter("batch_aggregate_failures_total",
		metric.WithDescription("Total number of batches that failed as a whole"),
		metric.WithUnit("{batch}"),
	); err != nil {
		return nil, err
	}
	if c.fallbackRuns, err = meter.Int64Counter("batch_fallback_runs_total",
		metric.WithDescription("Total number of single-item fallback runs"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, err
	}
	if c.batchSize, err = meter.Int64Histogram("batch_size",
		metric.WithDescription("Number of items per flushed batch"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024),
	); err != nil {
		return nil, err
	}
	if c.batchDuration, err = meter.Float64Histogram("batch_duration_seconds",
		metric.WithDescription("Batch duration in seconds, including fallback runs"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1),
	); err != nil {
		return nil, err
	}

	c.okItems = metric.WithAttributes(attribute.String("outcome", "ok"))
	c.errorItems = metric.WithAttributes(attribute.String("outcome", "error"))

	return c, nil
}

// RecordBatchStart implements the StatsCollector interface.
func (c *OTelStatsCollector) RecordBatchStart(batchSize int, reason FlushReason) {
	c.BasicStatsCollector.RecordBatchStart(batchSize, reason)

	ctx := context.Background()
	c.flushes.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason.String())))
	c.batchSize.Record(ctx, int64(batchSize))
}

// RecordBatchComplete implements the StatsCollector interface.
func (c *OTelStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {
	c.BasicStatsCollector.RecordBatchComplete(batchSize, duration)
	c.batchDuration.Record(context.Background(), duration.Seconds())
}

// RecordItemProcessed implements the StatsCollector interface.
func (c *OTelStatsCollector) RecordItemProcessed() {
	c.BasicStatsCollector.RecordItemProcessed()
	c.items.Add(context.Background(), 1, c.okItems)
}

// RecordItemError implements the StatsCollector interface.
func (c *OTelStatsCollector) RecordItemError() {
	c.BasicStatsCollector.RecordItemError()
	c.items.Add(context.Background(), 1, c.errorItems)
}

// RecordAggregateFailure implements the StatsCollector interface.
func (c *OTelStatsCollector) RecordAggregateFailure() {
	c.BasicStatsCollector.RecordAggregateFailure()
	c.aggregateFailures.Add(context.Background(), 1)
}

// RecordFallbackRun implements the StatsCollector interface.
func (c *OTelStatsCollector) RecordFallbackRun() {
	c.BasicStatsCollector.RecordFallbackRun()
	c.fallbackRuns.Add(context.Background(), 1)
}
