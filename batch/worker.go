package batch

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-multierror"
)

// worker is the single consumer of a mailbox. It accumulates requests into
// batches, flushes them through the executor one at a time, and hands the
// results back to the waiting callers.
type worker[Req, Resp any] struct {
	fn      BatchFunc[Req, Resp]
	mb      *mailbox[Req, Resp]
	exec    *Executor
	ownExec bool
	slot    *ErrorSlot
	config  Config
	logger  Logger
	stats   StatsCollector

	// ctx is passed to the BatchFunc, and is canceled once the service is
	// poisoned or the worker exits.
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Everything below is owned by the run goroutine.
	cfg      ConfigValues
	pending  []envelope[Req, Resp]
	timer    *time.Timer
	timedOut bool
	flushing bool
	inflight chan error
	batches  uint64
}

func newWorker[Req, Resp any](fn BatchFunc[Req, Resp], mb *mailbox[Req, Resp], slot *ErrorSlot, opts *Options, exec *Executor, ownExec bool) *worker[Req, Resp] {
	w := &worker[Req, Resp]{
		fn:       fn,
		mb:       mb,
		exec:     exec,
		ownExec:  ownExec,
		slot:     slot,
		config:   opts.Config,
		logger:   opts.Logger,
		stats:    opts.Stats,
		done:     make(chan struct{}),
		inflight: make(chan error, 1),
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.cfg = w.config.Get().withDefaults()
	return w
}

func (w *worker[Req, Resp]) run() {
	defer close(w.done)
	if w.ownExec {
		defer w.exec.Close()
	}
	defer w.cancel()
	defer func() {
		if r := recover(); r != nil {
			w.terminate(&WorkerError{Err: &PanicError{Value: r, Stack: debug.Stack()}})
		}
	}()

	w.terminate(w.loop())
}

// loop runs until every handle is closed and the last batch has been flushed,
// or until a flush hits a fatal fault. It returns the terminal error.
func (w *worker[Req, Resp]) loop() error {
	var input <-chan envelope[Req, Resp] = w.mb.ch

	for {
		if !w.flushing {
			if reason, ok := w.closeReason(input == nil); ok {
				w.flush(reason)
				continue
			}
			if input == nil && len(w.pending) == 0 {
				return ErrServiceClosed
			}
		}

		// Stop reading once the next batch is full; the mailbox then fills up
		// and pushes back on the callers.
		var items <-chan envelope[Req, Resp]
		if input != nil && len(w.pending) < w.cfg.MaxBatchSize {
			items = input
		}

		var timeout <-chan time.Time
		if w.timer != nil {
			timeout = w.timer.C
		}

		var inflight <-chan error
		if w.flushing {
			inflight = w.inflight
		}

		select {
		case env, ok := <-items:
			if !ok {
				input = nil
				continue
			}
			w.mb.received()
			w.accept(env)

		case <-timeout:
			w.timer = nil
			w.timedOut = true

		case err := <-inflight:
			w.flushing = false
			if err != nil {
				return err
			}
		}
	}
}

// closeReason decides whether the pending batch should be flushed now. The
// conditions are checked in priority order: full, then timed out, then the
// mailbox having been closed.
func (w *worker[Req, Resp]) closeReason(eof bool) (FlushReason, bool) {
	switch {
	case len(w.pending) == 0:
		return 0, false
	case len(w.pending) >= w.cfg.MaxBatchSize:
		return FlushFull, true
	case w.timedOut:
		return FlushTimeout, true
	case eof:
		return FlushShutdown, true
	}
	return 0, false
}

// accept adds env to the pending batch. The first item of a batch picks up the
// current config and arms the flush timer.
func (w *worker[Req, Resp]) accept(env envelope[Req, Resp]) {
	if len(w.pending) == 0 {
		w.cfg = w.config.Get().withDefaults()
		w.timer = time.NewTimer(w.cfg.MaxLatency)
		w.timedOut = false
	}
	w.pending = append(w.pending, env)
}

// flush starts running the pending batch in the background. The result is
// reported on w.inflight, and no other flush is started until it is received.
func (w *worker[Req, Resp]) flush(reason FlushReason) {
	w.batches++
	id := w.batches

	// Recorded while the items are still pending, so they are failed by
	// terminate if either call panics.
	w.stats.RecordBatchStart(len(w.pending), reason)
	w.logger.Debug("Batch %d: flushing %d items (%s)", id, len(w.pending), reason)

	batch := w.pending
	w.pending = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timedOut = false

	w.flushing = true
	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = w.fault(batch, &PanicError{Value: r, Stack: debug.Stack()})
			}
			w.inflight <- err
		}()

		err = w.runBatch(id, batch)
	}()
}

func (w *worker[Req, Resp]) runBatch(id uint64, batch []envelope[Req, Resp]) error {
	start := time.Now()

	reqs := make([]Req, len(batch))
	for i, env := range batch {
		reqs[i] = env.req
	}

	out, err := execute(w.ctx, w.exec, w.fn, reqs)
	if err != nil {
		return w.fault(batch, err)
	}

	if out.err == nil {
		for i, env := range batch {
			w.deliver(env, out.results[i], nil)
		}
	} else {
		w.stats.RecordAggregateFailure()
		w.logger.Warn("Batch %d: failed as a whole, retrying %d items individually: %v", id, len(batch), out.err)

		if err := w.fallback(id, batch, reqs); err != nil {
			return w.fault(batch, err)
		}
	}

	duration := time.Since(start)
	w.stats.RecordBatchComplete(len(batch), duration)
	w.logger.Debug("Batch %d: completed %d items in %v", id, len(batch), duration)

	return nil
}

// fallback runs every request of a failed batch on its own, so that only the
// requests that fail by themselves are reported as failed. Singletons run one
// at a time in batch order, keeping the effects of order-dependent requests
// (such as two writes to the same key) in submission order.
func (w *worker[Req, Resp]) fallback(id uint64, batch []envelope[Req, Resp], reqs []Req) error {
	results := make([]Resp, len(reqs))
	errs := make([]error, len(reqs))

	for i := range reqs {
		w.stats.RecordFallbackRun()
		out, err := execute(w.ctx, w.exec, w.fn, reqs[i:i+1])
		if err != nil {
			return err
		}
		if out.err != nil {
			errs[i] = &ItemError{Index: i, Err: out.err}
			continue
		}
		results[i] = out.results[0]
	}

	var failed *multierror.Error
	for i, env := range batch {
		if errs[i] != nil {
			failed = multierror.Append(failed, errs[i])
		}
		w.deliver(env, results[i], errs[i])
	}

	if err := failed.ErrorOrNil(); err != nil {
		w.logger.Warn("Batch %d: %d of %d items failed on their own: %v", id, len(failed.Errors), len(batch), err)
	} else {
		w.logger.Info("Batch %d: every item passed on its own", id)
	}

	return nil
}

// deliver resolves a single caller. Once the service is poisoned, every caller
// gets the terminal error instead of its result.
func (w *worker[Req, Resp]) deliver(env envelope[Req, Resp], resp Resp, err error) {
	if terr := w.slot.Get(); terr != nil {
		var zero Resp
		resp, err = zero, terr
	}

	if err != nil {
		w.stats.RecordItemError()
	} else {
		w.stats.RecordItemProcessed()
	}

	env.pending.resolve(resp, err)
}

// fault poisons the service with cause, and resolves the whole batch with the
// stored terminal error.
func (w *worker[Req, Resp]) fault(batch []envelope[Req, Resp], cause error) error {
	w.slot.Set(&WorkerError{Err: cause})
	w.cancel()

	err := w.slot.Get()

	var zero Resp
	for _, env := range batch {
		env.pending.resolve(zero, err)
	}

	return err
}

// terminate stores err as the terminal error unless one is already set, then
// fails every request that is still queued or pending.
func (w *worker[Req, Resp]) terminate(err error) {
	w.slot.Set(err)
	terr := w.slot.Get()
	w.cancel()
	w.mb.stop()

	if errors.Is(terr, ErrServiceClosed) {
		w.logger.Info("Worker stopped after %d batches", w.batches)
	} else {
		w.logger.Error("Worker terminated after %d batches: %v", w.batches, terr)
	}

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	var zero Resp
	for _, env := range w.pending {
		env.pending.resolve(zero, terr)
	}
	w.pending = nil

	for env := range w.mb.ch {
		w.mb.received()
		env.pending.resolve(zero, terr)
	}

	if w.flushing {
		<-w.inflight
		w.flushing = false
	}
}
