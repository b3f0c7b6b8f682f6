// Package batch contains a batch request middleware. The main type is Service,
// which can be created using New. It sits in front of a BatchFunc, groups
// concurrently submitted requests into batches, runs each batch as a single
// call to the BatchFunc, and hands every caller back its own result.
//
// A Service is a handle. Handles are cheap to Clone, and every clone shares the
// same mailbox and the same terminal error. The worker keeps running until
// every handle has been closed, at which point the remaining requests are
// flushed and the service reports ErrServiceClosed.
//
// Service uses MaxBatchSize and MaxLatency from Config to determine when a
// batch is closed. A batch is closed under exactly one of three conditions,
// checked in the following order:
//
//	MaxBatchSize > MaxLatency > EOF
//
// where EOF means that every handle has been closed. MaxLatency is measured
// from the moment the first item of a batch was accepted, so a lone request
// never waits longer than MaxLatency to be flushed. A batch that is both full
// and timed out is always reported as full.
//
// Batches are flushed one at a time. While a flush is outstanding, new
// requests keep being accepted into the next batch, up to MaxBatchSize.
//
// If the BatchFunc fails for a whole batch, the batch is not failed as a whole.
// Instead, every item is run again on its own, so that only the items which
// are actually invalid see an error. Those errors are of type *ItemError.
//
// A panic in the worker or in the BatchFunc, or an unusable Executor, poisons
// the service: the fault is stored once, and every pending and future request,
// on every handle, observes the same *WorkerError. A poisoned service never
// becomes ready again.
//
// The configuration is reloaded before each batch is collected. This allows
// dynamic Config implementations to update batch behavior during processing.
//
// Worker events go to a Logger (ZerologLogger and CharmLogger are provided),
// and batch metrics to a StatsCollector: BasicStatsCollector keeps them in
// memory, and OTelStatsCollector also exports them through OpenTelemetry.
package batch
