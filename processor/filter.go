package processor

import (
	"context"
	"errors"
)

// ErrFiltered is returned by Filter for a batch holding a rejected request.
var ErrFiltered = errors.New("processor: request rejected by filter")

// FilterFunc decides whether a request is accepted.
// Return true to accept the request, false to reject it.
type FilterFunc[Req any] func(req Req) bool

// Filter is a processor that checks every request against a predicate. A batch
// holding a rejected request fails as a whole with ErrFiltered, which leads the
// service to report an error for exactly the rejected requests.
//
// Filter is useful for verification-style services, where the result of an
// accepted request carries no data.
type Filter[Req any] struct {
	// Predicate is a function that returns true for requests that should be
	// accepted and false for requests that should be rejected.
	// If nil, every request is accepted.
	Predicate FilterFunc[Req]

	// InvertMatch inverts the predicate logic: if true, requests matching the
	// predicate are rejected instead of accepted.
	// Default is false (accept matching requests).
	InvertMatch bool
}

// Run implements the Processor interface by checking every request against
// the predicate.
func (p *Filter[Req]) Run(_ context.Context, reqs []Req) ([]struct{}, error) {
	if p.Predicate != nil {
		for _, req := range reqs {
			accept := p.Predicate(req)

			// Invert logic if needed
			if p.InvertMatch {
				accept = !accept
			}

			if !accept {
				return nil, ErrFiltered
			}
		}
	}

	return make([]struct{}, len(reqs)), nil
}
