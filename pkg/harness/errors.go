package harness

import "fmt"

// UserError marks a controlled, user-facing failure: the view rejected its
// input on purpose. Views return it, or wrap it, to signal that a record
// was handled rather than that the code is broken.
type UserError struct {
	Message string
}

// NewUserError formats a controlled failure.
func NewUserError(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

func (e *UserError) Error() string { return e.Message }

// PanicError wraps a recovered panic so it can travel as an error. The
// stack is captured at the recovery site inside the invoked view.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("harness: panic: %v", e.Value)
}
