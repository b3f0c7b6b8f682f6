package batch

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
)

// BatchFunc runs a batch of requests as a single operation.
//
// On success it must return exactly one result per request, in the same order
// as reqs. Returning an error means the batch failed as a whole; the Service
// then calls the BatchFunc again once per request, with a single request each
// time, to find out which requests are at fault.
//
// A BatchFunc must be safe to call concurrently with itself. It should respect
// ctx, which is canceled if the service is poisoned.
//
// Example:
//
//	verify := func(ctx context.Context, sigs []Signature) ([]struct{}, error) {
//		if !verifyBatch(sigs) {
//			return nil, errors.New("invalid signature in batch")
//		}
//		return make([]struct{}, len(sigs)), nil
//	}
type BatchFunc[Req, Resp any] func(ctx context.Context, reqs []Req) ([]Resp, error)

// Executor runs BatchFuncs on a fixed pool of goroutines, separate from the
// goroutines that accept requests, so that CPU bound batches never hold up
// the mailbox. An Executor may be shared by several services.
//
// Create one with NewExecutor.
type Executor struct {
	tasks       chan func()
	quit        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
	parallelism int
}

// NewExecutor starts an Executor with parallelism goroutines. If parallelism
// is not positive, runtime.GOMAXPROCS(0) is used.
//
// The Close method should be called when the Executor is no longer needed.
func NewExecutor(parallelism int) *Executor {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	e := &Executor{
		tasks:       make(chan func()),
		quit:        make(chan struct{}),
		parallelism: parallelism,
	}

	e.wg.Add(parallelism)
	for i := 0; i < parallelism; i++ {
		go e.work()
	}

	return e
}

// Parallelism returns the number of goroutines in the pool.
func (e *Executor) Parallelism() int {
	return e.parallelism
}

// Close stops the pool, waiting for any running batches to finish. Services
// using the Executor are poisoned with ErrExecutorClosed the next time they
// flush a batch. Close can be called multiple times with no problems.
//
// This method is unsafe to call from within a BatchFunc.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
	})
	e.wg.Wait()
}

func (e *Executor) work() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case task := <-e.tasks:
			task()
		}
	}
}

// submit hands task to one of the pool goroutines. Once submit returns nil,
// the task is guaranteed to run.
func (e *Executor) submit(ctx context.Context, task func()) error {
	select {
	case <-e.quit:
		return ErrExecutorClosed
	default:
	}

	select {
	case <-e.quit:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case e.tasks <- task:
		return nil
	}
}

// outcome is the result of one BatchFunc call: either a result per request,
// or an error for the batch as a whole.
type outcome[Resp any] struct {
	results []Resp
	err     error
}

// execute runs fn on the pool and waits for it. The returned error is a fatal
// fault (closed pool, panic, or a broken result count), not a batch failure.
func execute[Req, Resp any](ctx context.Context, e *Executor, fn BatchFunc[Req, Resp], reqs []Req) (outcome[Resp], error) {
	var (
		out   outcome[Resp]
		fault error
		done  = make(chan struct{})
	)

	task := func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				fault = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		out.results, out.err = fn(ctx, reqs)
	}

	if err := e.submit(ctx, task); err != nil {
		return outcome[Resp]{}, err
	}
	<-done

	if fault != nil {
		return outcome[Resp]{}, fault
	}
	if out.err == nil && len(out.results) != len(reqs) {
		return outcome[Resp]{}, &ResultCountError{Want: len(reqs), Got: len(out.results)}
	}
	return out, nil
}
