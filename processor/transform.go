package processor

import (
	"context"
	"errors"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// ErrNilFunc is returned by a processor that has no function to run.
var ErrNilFunc = errors.New("processor: nil function")

// TransformFunc computes the result for a single request.
type TransformFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Transform is a processor that applies a function to each request of a batch
// in turn. It turns a function written for single requests into a BatchFunc.
//
// The first error fails the batch as a whole. The service then runs each
// request on its own, so only the requests the function rejects see an error.
type Transform[Req, Resp any] struct {
	// Func is the transformation function to apply to each request.
	Func TransformFunc[Req, Resp]
}

// Run implements the Processor interface by applying the transformation
// function to each request.
func (p *Transform[Req, Resp]) Run(ctx context.Context, reqs []Req) ([]Resp, error) {
	if p.Func == nil {
		return nil, ErrNilFunc
	}

	result := make([]Resp, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := p.Func(ctx, req)
		if err != nil {
			return nil, err
		}
		result[i] = resp
	}

	return result, nil
}

// PerItem returns a BatchFunc that runs fn on every request of a batch.
func PerItem[Req, Resp any](fn TransformFunc[Req, Resp]) batch.BatchFunc[Req, Resp] {
	p := &Transform[Req, Resp]{Func: fn}
	return p.Run
}
