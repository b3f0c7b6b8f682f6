package batch_test

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// checkNumGoroutines records the number of running goroutines, and returns a
// check that fails the test if there are more than that once timeout passes.
func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf("goroutine leak: %d before, %d after", before, after)
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// recorder is a BatchFunc that doubles every request and records each call.
// It fails a whole batch containing a negative request.
type recorder struct {
	mu    sync.Mutex
	calls [][]int

	// gate, if not nil, is waited on by every call.
	gate chan struct{}

	running atomic.Int32
}

func (r *recorder) Run(ctx context.Context, reqs []int) ([]int, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]int(nil), reqs...))
	gate := r.gate
	r.mu.Unlock()

	r.running.Add(1)
	defer r.running.Add(-1)

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	out := make([]int, len(reqs))
	for i, req := range reqs {
		if req < 0 {
			return nil, errInvalid
		}
		out[i] = req * 2
	}
	return out, nil
}

func (r *recorder) Calls() [][]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]int(nil), r.calls...)
}

// waitCalls blocks until at least n calls have started.
func (r *recorder) waitCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for len(r.Calls()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d calls, got %d", n, len(r.Calls()))
		}
		time.Sleep(time.Millisecond)
	}
}
