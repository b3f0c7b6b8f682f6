package pipeline

import (
	"context"
	"errors"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// DoerElem is a single call to Do, as seen by a DoerFunc. The DoerFunc sets
// Output, or Err if this element failed on its own.
type DoerElem[In, Out any] struct {
	Input  In
	Output Out
	Err    error
}

// DoerFunc handles a batch of elements. Returning an error fails the whole
// batch, in which case each element is retried on its own.
type DoerFunc[In, Out any] func(ctx context.Context, elems []*DoerElem[In, Out]) error

type doerResult[Out any] struct {
	output Out
	err    error
}

func noopDoerFunc[In, Out any](_ context.Context, _ []*DoerElem[In, Out]) error {
	return nil
}

// Do not use Doer directly; instead, use NewDoer.
type Doer[In, Out any] struct {
	svc *batch.Service[In, doerResult[Out]]
}

// NewDoer starts a Doer that runs f on batches of calls to Do. A nil f is a
// noop, and a nil opts uses the batch package defaults.
func NewDoer[In, Out any](f DoerFunc[In, Out], opts *batch.Options) (*Doer[In, Out], error) {
	if f == nil {
		f = noopDoerFunc[In, Out]
	}

	svc, err := batch.New(doerBatch(f), opts)
	if err != nil {
		return nil, err
	}
	return &Doer[In, Out]{svc: svc}, nil
}

func doerBatch[In, Out any](f DoerFunc[In, Out]) batch.BatchFunc[In, doerResult[Out]] {
	return func(ctx context.Context, inputs []In) ([]doerResult[Out], error) {
		elems := make([]*DoerElem[In, Out], len(inputs))
		for i, in := range inputs {
			elems[i] = &DoerElem[In, Out]{Input: in}
		}

		if err := f(ctx, elems); err != nil {
			return nil, err
		}

		results := make([]doerResult[Out], len(elems))
		for i, e := range elems {
			results[i] = doerResult[Out]{output: e.Output, err: e.Err}
		}
		return results, nil
	}
}

// Do runs val as part of the next batch and returns its output. The error is
// either the element's own Err, or an error from the batch service.
//
// If ctx is done, ctx.Err() is returned.
func (d *Doer[In, Out]) Do(ctx context.Context, val In) (Out, error) {
	var zero Out

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	default:
	}

	// A nil Doer is most likely a bug, so don't treat it as a noop.
	// NewDoer(nil, nil) gives an explicit noop.
	if d == nil || d.svc == nil {
		return zero, errors.New("pipeline: called Do on uninitialized Doer")
	}

	res, err := d.svc.Call(ctx, val)
	if err != nil {
		return zero, err
	}
	return res.output, res.err
}

// Close stops the Doer once the calls already made have completed. Close can
// be called multiple times with no problems.
func (d *Doer[In, Out]) Close() {
	if d == nil || d.svc == nil {
		return
	}
	_ = d.svc.Shutdown(context.Background())
}
