package source

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// HandlerFunc receives the outcome of each request run by Pump.
type HandlerFunc[Req, Resp any] func(req Req, resp Resp, err error)

// Pump reads requests from src and calls svc with each of them, from
// concurrency goroutines, passing every outcome to handle. handle may be
// called concurrently.
//
// Pump returns once src is exhausted and every request it produced has been
// handled. Failed calls are reported to handle only. If ctx is done, the
// callers stop, requests that were not yet submitted are dropped, and Pump
// returns the context error. An error from src takes precedence.
func Pump[Req, Resp any](ctx context.Context, svc *batch.Service[Req, Resp], src Source[Req],
	concurrency int, handle HandlerFunc[Req, Resp]) error {
	if svc == nil || src == nil {
		return errors.New("source: nil service or source")
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	reqs := make(chan Req)

	callers, readCtx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		callers.Go(func() error {
			for req := range reqs {
				if err := ctx.Err(); err != nil {
					return err
				}
				resp, err := svc.Call(ctx, req)
				if handle != nil {
					handle(req, resp, err)
				}
			}
			return nil
		})
	}

	// readCtx is done once a caller stops, so src never blocks on a send
	// nobody receives.
	err := src.Read(readCtx, reqs)
	close(reqs)
	if werr := callers.Wait(); err == nil {
		err = werr
	}

	return err
}
