package source

import "context"

// Channel is a Source that forwards requests from Input until it is closed.
type Channel[Req any] struct {
	// Input is the channel from which this source will read requests.
	// The Channel source will not close this channel.
	Input <-chan Req
}

// Read forwards requests from Input to out until Input is closed or ctx is
// done. A nil Input produces nothing.
func (s *Channel[Req]) Read(ctx context.Context, out chan<- Req) error {
	if s.Input == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-s.Input:
			if !ok {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- req:
			}
		}
	}
}
