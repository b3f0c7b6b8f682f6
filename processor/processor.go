package processor

import (
	"context"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// Processor is implemented by every type in this package. The Run method has
// the signature of a batch.BatchFunc, so a Processor p is passed to batch.New
// as p.Run.
type Processor[Req, Resp any] interface {
	Run(ctx context.Context, reqs []Req) ([]Resp, error)
}

// Func adapts a Processor to a batch.BatchFunc.
func Func[Req, Resp any](p Processor[Req, Resp]) batch.BatchFunc[Req, Resp] {
	return p.Run
}

var (
	_ Processor[int, int]      = (*Logging[int, int])(nil)
	_ Processor[int, int]      = (*Stats[int, int])(nil)
	_ Processor[int, int]      = (*Transform[int, int])(nil)
	_ Processor[int, struct{}] = (*Filter[int])(nil)
	_ Processor[int, int]      = (*Nil[int, int])(nil)
	_ Processor[int, int]      = (*Error[int, int])(nil)
	_ Processor[int, int]      = (*ResultCollector[int, int])(nil)
)
