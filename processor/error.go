package processor

import (
	"context"
	"errors"
	"math/rand/v2"
)

// ErrProcessor is the error used by Error when none is configured.
var ErrProcessor = errors.New("processor error")

// Error is a processor that fails calls with the given error. It is used to
// simulate a failing or flaky backend.
type Error[Req, Resp any] struct {
	// Err is the error returned for a failed call.
	// If nil, ErrProcessor is used.
	Err error

	// FailFraction controls what fraction of calls fail.
	// Value range is 0.0 to 1.0, where:
	// - 0.0 means no call fails (processor returns zero results) - this is the zero value default
	// - 1.0 means every call fails
	// - 0.5 means approximately half the calls fail
	FailFraction float64
}

// Run fails with Err for a FailFraction share of calls, and otherwise returns
// a zero result per request.
func (p *Error[Req, Resp]) Run(_ context.Context, reqs []Req) ([]Resp, error) {
	if p.FailFraction > 0 && (p.FailFraction >= 1 || rand.Float64() < p.FailFraction) {
		if p.Err == nil {
			return nil, ErrProcessor
		}
		return nil, p.Err
	}

	return make([]Resp, len(reqs)), nil
}
