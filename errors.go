// Package travelpod - errors.go
// Defines session and tool errors.

package travelpod

import "errors"

var (
	ErrSessionClosed   = errors.New("session has been closed")
	ErrNoAnswer        = errors.New("agent finished without an answer")
	ErrMaxIterations   = errors.New("agent reached the maximum number of iterations")
	ErrStorageDisabled = errors.New("conversation storage is not configured")
	ErrEmptyQuery      = errors.New("query must not be empty")
	ErrToolNotFound    = errors.New("tool not found")
)

// IgnorableError is a tool failure the model should not try to recover from.
type IgnorableError struct {
	Err error
}

func (e *IgnorableError) Error() string { return e.Err.Error() }
func (e *IgnorableError) Unwrap() error { return e.Err }

// RetryableError is a tool failure the model can fix, usually by calling the
// tool again with corrected arguments.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }
