package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// Service is a handle to a batching service. Requests submitted through any
// handle are collected by a single background worker into batches, which are
// run by the BatchFunc given to New.
//
// A Service can be cloned with Clone. All clones share the same mailbox, and
// so the same backpressure, and observe the same terminal error. Each handle
// must be closed with Close once it is no longer needed; the worker flushes
// what is left and exits once every handle has been closed.
//
// The methods of a Service are safe to call concurrently.
type Service[Req, Resp any] struct {
	mb     *mailbox[Req, Resp]
	slot   *ErrorSlot
	done   <-chan struct{}
	closed atomic.Bool
}

// New starts a Service that runs batches with fn. A nil opts is equivalent
// to the zero Options.
//
// The Service's worker keeps running until every handle is closed, so Close
// must be called to release it.
func New[Req, Resp any](fn BatchFunc[Req, Resp], opts *Options) (*Service[Req, Resp], error) {
	if fn == nil {
		return nil, errors.New("batch: nil BatchFunc")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("batch: invalid options: %w", err)
	}
	opts = opts.WithDefaults()

	exec, ownExec := opts.Executor, false
	if exec == nil {
		exec, ownExec = NewExecutor(opts.ExecutorParallelism), true
	}

	slot := &ErrorSlot{}
	mb := newMailbox[Req, Resp](opts.MailboxCapacity)
	w := newWorker(fn, mb, slot, opts, exec, ownExec)

	opts.Logger.Info("Starting batch service: mailbox capacity %d, executor parallelism %d, max batch size %d, max latency %v",
		opts.MailboxCapacity, exec.Parallelism(), w.cfg.MaxBatchSize, w.cfg.MaxLatency)

	go w.run()

	return &Service[Req, Resp]{
		mb:   mb,
		slot: slot,
		done: w.done,
	}, nil
}

// Clone returns a new handle to the same service. Cloning a closed handle, or
// a handle whose service has already shut down, returns a closed handle.
func (s *Service[Req, Resp]) Clone() *Service[Req, Resp] {
	c := &Service[Req, Resp]{
		mb:   s.mb,
		slot: s.slot,
		done: s.done,
	}
	if s.closed.Load() || !s.mb.addProducer() {
		c.closed.Store(true)
	}
	return c
}

// Close releases the handle. Requests already submitted are still run. Once
// every handle is closed, the worker flushes the remaining requests and exits
// with ErrServiceClosed. Close can be called multiple times with no problems.
func (s *Service[Req, Resp]) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.mb.removeProducer()
	}
	return nil
}

// Shutdown closes the handle and waits for the worker to exit, or for ctx to
// be done. The worker only exits once every clone has been closed as well.
func (s *Service[Req, Resp]) Shutdown(ctx context.Context) error {
	_ = s.Close()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once the worker has exited.
func (s *Service[Req, Resp]) Done() <-chan struct{} {
	return s.done
}

// Err returns the terminal error of the service, or nil while it is running.
// Once set, the error never changes.
func (s *Service[Req, Resp]) Err() error {
	return s.slot.Get()
}

// PollReady reports, without blocking, whether a request could be submitted
// right now without waiting. It returns nil when ready, the terminal error if
// the service has stopped, ErrEnqueueRejected if this handle is closed, and
// ErrNotReady if the mailbox is full.
func (s *Service[Req, Resp]) PollReady() error {
	if err := s.slot.Get(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrEnqueueRejected
	}
	if !s.mb.hasCapacity() {
		return ErrNotReady
	}
	return nil
}

// Ready blocks until the mailbox has room, the service stops, or ctx is done.
// Room is not reserved, so a following Submit may still have to wait.
func (s *Service[Req, Resp]) Ready(ctx context.Context) error {
	if err := s.PollReady(); !errors.Is(err, ErrNotReady) {
		return err
	}

	if err := s.mb.waitCapacity(ctx); err != nil {
		if terr := s.slot.Get(); terr != nil {
			return terr
		}
		return err
	}
	return nil
}

// Submit queues req for the next batch and returns the future for its result.
// It blocks while the mailbox is full.
//
// If the service has stopped, Submit fails right away with the terminal error.
// Canceling ctx only affects the wait for room in the mailbox; once Submit
// returns, the request is part of a batch regardless of what the caller does.
func (s *Service[Req, Resp]) Submit(ctx context.Context, req Req) (*Pending[Resp], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.slot.Get(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, ErrEnqueueRejected
	}

	p := newPending[Resp]()
	if err := s.mb.send(ctx, envelope[Req, Resp]{req: req, pending: p}); err != nil {
		if terr := s.slot.Get(); terr != nil {
			return nil, terr
		}
		return nil, err
	}

	return p, nil
}

// Call submits req and waits for its result. If ctx is done while waiting for
// the result, Call returns ctx.Err() but the request still runs.
func (s *Service[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	p, err := s.Submit(ctx, req)
	if err != nil {
		var zero Resp
		return zero, err
	}
	return p.Wait(ctx)
}
