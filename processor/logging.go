package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/MasterOfBinary/batchsvc/batch"
)

// Logging wraps a BatchFunc and adds logging capabilities.
// It logs when a batch starts and completes, along with any error returned.
type Logging[Req, Resp any] struct {
	// Func is the wrapped BatchFunc that does the actual work.
	Func batch.BatchFunc[Req, Resp]

	// Logger is used to log processing events.
	// If nil, no logging occurs.
	Logger batch.Logger

	// Name is an optional name for this processor used in log messages.
	// If empty, a generic name is used.
	Name string
}

// Run implements the Processor interface by delegating to the wrapped
// BatchFunc and logging the call.
func (p *Logging[Req, Resp]) Run(ctx context.Context, reqs []Req) ([]Resp, error) {
	if p.Func == nil {
		return nil, ErrNilFunc
	}

	if p.Logger == nil {
		// No logger, just pass through
		return p.Func(ctx, reqs)
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%T", p.Func)
	}

	startTime := time.Now()
	p.Logger.Debug("Processor '%s' starting with %d requests", name, len(reqs))

	result, err := p.Func(ctx, reqs)

	duration := time.Since(startTime)
	if err != nil {
		// A batch failure is expected when the batch holds an invalid request,
		// so only single requests are logged as errors.
		if len(reqs) == 1 {
			p.Logger.Error("Processor '%s' failed after %v: %v", name, duration, err)
		} else {
			p.Logger.Warn("Processor '%s' failed for %d requests after %v: %v", name, len(reqs), duration, err)
		}
	} else {
		p.Logger.Debug("Processor '%s' completed in %v: %d results", name, duration, len(result))
	}

	return result, err
}

// WrapWithLogging wraps a BatchFunc with logging capabilities.
// This is a convenience function for creating a Logging processor.
//
// Example:
//
//	logger := batch.NewZerologLogger(zerolog.New(os.Stderr))
//	svc, err := batch.New(processor.WrapWithLogging(verify, logger, "verify"), nil)
func WrapWithLogging[Req, Resp any](fn batch.BatchFunc[Req, Resp], logger batch.Logger, name string) batch.BatchFunc[Req, Resp] {
	p := &Logging[Req, Resp]{
		Func:   fn,
		Logger: logger,
		Name:   name,
	}
	return p.Run
}
