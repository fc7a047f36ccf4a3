package utils

import "fmt"

// AppError carries the failing operation alongside a human-readable message
// and the underlying cause, so log lines identify the subsystem at a glance.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

// Unwrap exposes the cause so errors.Is and errors.As see through the wrapper.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with an operation tag and message.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}
