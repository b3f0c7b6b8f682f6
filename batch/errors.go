package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrEnqueueRejected is returned by Submit when the handle has been
	// closed, so the request could not be queued.
	ErrEnqueueRejected = errors.New("batch: enqueue rejected")

	// ErrWorkerTerminated is matched by every *WorkerError, i.e. by the
	// terminal error of a poisoned service.
	ErrWorkerTerminated = errors.New("batch: worker terminated")

	// ErrServiceClosed is the terminal error stored once every handle has
	// been closed and all queued requests have been flushed.
	ErrServiceClosed = errors.New("batch: service closed")

	// ErrItemVerificationFailed is matched by every *ItemError.
	ErrItemVerificationFailed = errors.New("batch: item verification failed")

	// ErrNotReady is returned by PollReady while the mailbox is full.
	ErrNotReady = errors.New("batch: not ready")

	// ErrExecutorClosed is returned when a batch is handed to an Executor
	// that has been closed.
	ErrExecutorClosed = errors.New("batch: executor closed")
)

// ItemError is returned to the caller of a single item that failed when it was
// run on its own, after its batch failed as a whole.
type ItemError struct {
	// Index is the position of the item within its batch.
	Index int

	// Err is the error returned by the BatchFunc for the item.
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("batch: item %d failed: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrItemVerificationFailed.
func (e *ItemError) Is(target error) bool {
	return target == ErrItemVerificationFailed
}

// WorkerError is the terminal error of a service whose worker hit a fatal fault.
type WorkerError struct {
	Err error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("batch: worker terminated: %v", e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrWorkerTerminated.
func (e *WorkerError) Is(target error) bool {
	return target == ErrWorkerTerminated
}

// PanicError is the cause of a WorkerError produced by a recovered panic.
type PanicError struct {
	// Value is the value passed to panic.
	Value interface{}

	// Stack is the stack trace of the panicking goroutine.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ResultCountError is the cause of a WorkerError produced by a BatchFunc that
// returned a different number of results than it was given requests.
type ResultCountError struct {
	Want int
	Got  int
}

func (e *ResultCountError) Error() string {
	return fmt.Sprintf("batch func returned %d results for %d requests", e.Got, e.Want)
}
