package source

import "context"

// Source produces requests. Read sends requests to out until it has no more
// or ctx is done, and then returns. Read must not close out.
type Source[Req any] interface {
	Read(ctx context.Context, out chan<- Req) error
}
