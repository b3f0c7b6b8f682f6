package batch

import "sync/atomic"

// ErrorSlot holds the terminal error of a service. The first error stored wins;
// every later Set is a no-op. The zero value is empty and ready to use.
type ErrorSlot struct {
	err atomic.Pointer[error]
}

// Get returns the stored error, or nil. It never blocks.
func (s *ErrorSlot) Get() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Set stores err if the slot is still empty, and reports whether it did.
// A nil err is ignored.
func (s *ErrorSlot) Set(err error) bool {
	if err == nil {
		return false
	}
	return s.err.CompareAndSwap(nil, &err)
}
