package processor

import (
	"context"
	"time"
)

// Nil is a processor that returns the zero result for every request after a
// specified duration. It can be used as a mock BatchFunc, for testing timing
// behavior.
type Nil[Req, Resp any] struct {
	// Duration is how long each call takes. A canceled ctx cuts it short.
	Duration time.Duration
}

// Run waits for Duration, then succeeds with a zero result per request.
func (p *Nil[Req, Resp]) Run(ctx context.Context, reqs []Req) ([]Resp, error) {
	if p.Duration > 0 {
		timer := time.NewTimer(p.Duration)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return make([]Resp, len(reqs)), nil
}
