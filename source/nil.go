package source

import (
	"context"
	"time"
)

// Nil is a Source that doesn't produce any requests. Instead it returns
// after the specified duration. It can be used as a mock Source.
type Nil[Req any] struct {
	Duration time.Duration
}

// Read doesn't produce anything. It returns ctx.Err() if ctx is done first.
func (s *Nil[Req]) Read(ctx context.Context, _ chan<- Req) error {
	if s.Duration <= 0 {
		return nil
	}

	timer := time.NewTimer(s.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
