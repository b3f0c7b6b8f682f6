package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	metrics := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = m
		}
	}
	return metrics
}

// sumBy returns the counter values of m, keyed by the value of attribute key.
func sumBy(t *testing.T, m metricdata.Metrics, key string) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key(key))
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestOTelStatsCollector(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	c, err := NewOTelStatsCollector(provider.Meter("batch-test"))
	require.NoError(t, err)

	c.RecordBatchStart(4, FlushFull)
	c.RecordBatchStart(1, FlushTimeout)
	c.RecordBatchStart(2, FlushFull)
	for i := 0; i < 5; i++ {
		c.RecordItemProcessed()
	}
	c.RecordItemError()
	c.RecordAggregateFailure()
	for i := 0; i < 4; i++ {
		c.RecordFallbackRun()
	}
	c.RecordBatchComplete(4, 2*time.Millisecond)
	c.RecordBatchComplete(1, time.Millisecond)

	metrics := collectMetrics(t, reader)

	assert.Equal(t, map[string]int64{"full": 2, "timeout": 1}, sumBy(t, metrics["batch_flushes_total"], "reason"))
	assert.Equal(t, map[string]int64{"ok": 5, "error": 1}, sumBy(t, metrics["batch_items_total"], "outcome"))
	assert.Equal(t, map[string]int64{"": 1}, sumBy(t, metrics["batch_aggregate_failures_total"], "none"))
	assert.Equal(t, map[string]int64{"": 4}, sumBy(t, metrics["batch_fallback_runs_total"], "none"))

	sizes, ok := metrics["batch_size"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, sizes.DataPoints, 1)
	assert.Equal(t, uint64(3), sizes.DataPoints[0].Count)
	assert.Equal(t, int64(7), sizes.DataPoints[0].Sum)

	durations, ok := metrics["batch_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, durations.DataPoints, 1)
	assert.Equal(t, uint64(2), durations.DataPoints[0].Count)

	// The in-memory snapshot is kept as well.
	stats := c.GetStats()
	assert.Equal(t, uint64(3), stats.BatchesStarted)
	assert.Equal(t, uint64(2), stats.FullFlushes)
	assert.Equal(t, uint64(5), stats.ItemsProcessed)
	assert.Equal(t, uint64(4), stats.FallbackRuns)
}

func TestOTelStatsCollector_Service(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	stats, err := NewOTelStatsCollector(provider.Meter("batch-test"))
	require.NoError(t, err)

	svc, err := New(func(_ context.Context, reqs []int) ([]int, error) {
		return reqs, nil
	}, &Options{
		Config: NewConstantConfig(&ConfigValues{MaxBatchSize: 2, MaxLatency: time.Hour}),
		Stats:  stats,
	})
	require.NoError(t, err)

	a, err := svc.Submit(context.Background(), 1)
	require.NoError(t, err)
	b, err := svc.Submit(context.Background(), 2)
	require.NoError(t, err)
	_, err = a.Wait(context.Background())
	require.NoError(t, err)
	_, err = b.Wait(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Shutdown(context.Background()))

	metrics := collectMetrics(t, reader)
	assert.Equal(t, map[string]int64{"full": 1}, sumBy(t, metrics["batch_flushes_total"], "reason"))
	assert.Equal(t, map[string]int64{"ok": 2}, sumBy(t, metrics["batch_items_total"], "outcome"))
}
