package source

import "context"

// Generator is a Source that produces Count requests, calling Next with
// 0, 1, ..., Count-1.
type Generator[Req any] struct {
	Count int
	Next  func(i int) Req
}

// Read sends each generated request to out, stopping early if ctx is done.
func (s *Generator[Req]) Read(ctx context.Context, out chan<- Req) error {
	for i := 0; i < s.Count; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- s.Next(i):
		}
	}
	return nil
}
