package source

import "context"

// Error is a Source that produces no requests and fails with Err. It is
// useful for testing error handling around Pump.
type Error[Req any] struct {
	Err error
}

// Read returns Err without sending anything.
func (s *Error[Req]) Read(_ context.Context, _ chan<- Req) error {
	return s.Err
}
