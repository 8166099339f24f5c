package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferFull indicates the line buffer reached its capacity.
	ErrBufferFull = errors.New("buffer full")
	// ErrMalformed indicates the line is not a valid expression.
	ErrMalformed = errors.New("malformed expression")
	// ErrDivideByZero indicates division or modulo by zero.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrOverflow indicates the result doesn't fit in an int64.
	ErrOverflow = errors.New("integer overflow")
)

// FaultError wraps a platform error classified as unrecoverable.
type FaultError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *FaultError) Error() string {
	return fmt.Sprintf("fault in %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *FaultError) Unwrap() error {
	return e.Err
}
