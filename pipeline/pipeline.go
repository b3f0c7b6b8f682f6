// Package pipeline contains higher-level components built on batch.Service
// that present a simple synchronous API while batching calls in the
// background.
//
// Every component here owns a batch.Service: a call submits a single request
// and waits for its result, and the batching happens transparently.
//
// Current Implementations:
//
//   - Doer: a generic call-and-wait API for a function that fills in the
//     output (or error) of each element of a batch in place.
//
//   - KVPipeline: GET, SET, DEL and EXISTS commands against a key/value store,
//     sent as one pipelined round trip per batch through a Pipeliner.
//
//   - MemoryStore: an in-memory Pipeliner, for tests and examples.
package pipeline
