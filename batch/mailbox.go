package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// envelope carries a request from a handle to the worker, along with the
// future its result is delivered to.
type envelope[Req, Resp any] struct {
	req     Req
	pending *Pending[Resp]
}

// mailbox is the bounded queue between the handles and the worker.
//
// A permit is held for every envelope sitting in ch, so a send that holds a
// permit never blocks on ch. The worker returns the permit when it receives
// the envelope.
type mailbox[Req, Resp any] struct {
	ch      chan envelope[Req, Resp]
	permits *semaphore.Weighted
	halted  context.Context
	halt    context.CancelFunc

	// mu protects the following variables, and guards closing ch against
	// concurrent sends
	mu        sync.RWMutex
	producers int
	closed    bool
}

func newMailbox[Req, Resp any](capacity int) *mailbox[Req, Resp] {
	m := &mailbox[Req, Resp]{
		ch:        make(chan envelope[Req, Resp], capacity),
		permits:   semaphore.NewWeighted(int64(capacity)),
		producers: 1,
	}
	m.halted, m.halt = context.WithCancel(context.Background())
	return m
}

// send blocks until there is room for env, ctx is done, or the mailbox is
// halted. ErrEnqueueRejected is returned if the mailbox is closed or halted.
func (m *mailbox[Req, Resp]) send(ctx context.Context, env envelope[Req, Resp]) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || m.halted.Err() != nil {
		m.permits.Release(1)
		return ErrEnqueueRejected
	}

	m.ch <- env

	return nil
}

// acquire takes a permit, giving up when ctx is done or the mailbox is halted.
func (m *mailbox[Req, Resp]) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.halted, cancel)
	defer stop()

	if err := m.permits.Acquire(waitCtx, 1); err != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrEnqueueRejected
	}
	return nil
}

// waitCapacity blocks until a send would not block, without reserving room.
func (m *mailbox[Req, Resp]) waitCapacity(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	m.permits.Release(1)
	return nil
}

// hasCapacity reports whether a send would currently not block.
func (m *mailbox[Req, Resp]) hasCapacity() bool {
	if !m.permits.TryAcquire(1) {
		return false
	}
	m.permits.Release(1)
	return true
}

// received must be called by the worker for every envelope taken from ch.
func (m *mailbox[Req, Resp]) received() {
	m.permits.Release(1)
}

// addProducer registers another handle, failing if the mailbox is closed.
func (m *mailbox[Req, Resp]) addProducer() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.producers++
	return true
}

// removeProducer drops a handle. Dropping the last one closes ch.
func (m *mailbox[Req, Resp]) removeProducer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.producers--
	if m.producers <= 0 && !m.closed {
		m.closed = true
		close(m.ch)
	}
}

// stop halts the mailbox, unblocking and rejecting all waiting sends, then
// closes ch so the worker can drain it.
func (m *mailbox[Req, Resp]) stop() {
	m.halt()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
}

// Pending is the future for a submitted request. It is resolved exactly once,
// by the worker.
type Pending[Resp any] struct {
	done     chan struct{}
	resolved atomic.Bool
	resp     Resp
	err      error
}

func newPending[Resp any]() *Pending[Resp] {
	return &Pending[Resp]{done: make(chan struct{})}
}

// resolve sets the result, reporting false if it was already set.
func (p *Pending[Resp]) resolve(resp Resp, err error) bool {
	if !p.resolved.CompareAndSwap(false, true) {
		return false
	}
	p.resp, p.err = resp, err
	close(p.done)
	return true
}

// Done returns a channel that is closed once the result is available.
func (p *Pending[Resp]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result is available, or ctx is done. Giving up on
// Wait does not remove the request from its batch; the result is simply
// never observed. Wait may be called any number of times.
func (p *Pending[Resp]) Wait(ctx context.Context) (Resp, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	default:
	}

	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		var zero Resp
		return zero, ctx.Err()
	}
}
