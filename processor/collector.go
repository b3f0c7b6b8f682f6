package processor

import (
	"context"
	"sync"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// Result is a request collected by ResultCollector, along with the result the
// wrapped function returned for it.
type Result[Req, Resp any] struct {
	Req  Req
	Resp Resp
}

// ResultCollector wraps a BatchFunc and collects the results of every
// successful call. It is mostly useful in tests, to see which requests were
// run and what they returned.
//
// Thread-Safety Guarantees:
//
// - All methods are thread-safe and can be called concurrently from multiple goroutines.
// - The Run method uses an exclusive write lock when adding results to the collection.
// - The Results method uses a read lock when reset=false, allowing concurrent reads.
// - The Results method uses an exclusive write lock when reset=true.
//
// Example usage:
//
//	collector := &processor.ResultCollector[int, int]{Func: fn}
//	svc, err := batch.New(collector.Run, nil)
//	...
//	for _, r := range collector.Results(false) {
//		fmt.Println(r.Req, r.Resp)
//	}
//
// Calls that fail are not collected. The single-request runs made after a
// batch fails are, so a request can appear once for its batch or once on its
// own, but never both.
type ResultCollector[Req, Resp any] struct {
	// Func is the wrapped BatchFunc that does the actual work.
	Func batch.BatchFunc[Req, Resp]

	// Filter determines which results to collect.
	// If nil, all results are collected.
	Filter func(req Req, resp Resp) bool

	// MaxItems limits the number of results collected (0 for unlimited).
	MaxItems int

	mu      sync.RWMutex
	results []Result[Req, Resp]
	calls   int
}

// Run implements the Processor interface by delegating to the wrapped
// BatchFunc and collecting its results.
func (c *ResultCollector[Req, Resp]) Run(ctx context.Context, reqs []Req) ([]Resp, error) {
	if c.Func == nil {
		return nil, ErrNilFunc
	}

	resps, err := c.Func(ctx, reqs)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if err != nil || len(resps) != len(reqs) {
		return resps, err
	}

	for i, req := range reqs {
		if c.Filter != nil && !c.Filter(req, resps[i]) {
			continue
		}

		// Check if we've reached the maximum number of items
		if c.MaxItems > 0 && len(c.results) >= c.MaxItems {
			break
		}

		c.results = append(c.results, Result[Req, Resp]{Req: req, Resp: resps[i]})
	}

	return resps, nil
}

// Results returns a copy of the collected results and optionally resets the
// collection. Results are in the order the calls completed.
func (c *ResultCollector[Req, Resp]) Results(reset bool) []Result[Req, Resp] {
	if reset {
		c.mu.Lock()
		defer c.mu.Unlock()
	} else {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}

	result := make([]Result[Req, Resp], len(c.results))
	copy(result, c.results)

	if reset {
		c.results = nil
	}

	return result
}

// Reset clears all collected results and the call count.
func (c *ResultCollector[Req, Resp]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = nil
	c.calls = 0
}

// Count returns the number of results collected so far.
func (c *ResultCollector[Req, Resp]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.results)
}

// Calls returns the number of times the wrapped BatchFunc was called.
func (c *ResultCollector[Req, Resp]) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.calls
}
