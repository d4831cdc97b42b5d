// Package paniclog turns recovered panics into errors,
// writing the panic and its stack trace to an io.Writer.
package paniclog

import (
	"fmt"
	"io"
	"runtime/debug"

	"go.uber.org/multierr"
)

// Error is a recovered panic.
type Error struct {
	// Value passed to panic.
	Value any

	// Stack of the panicking goroutine.
	Stack []byte
}

// Error returns the panic message. Strings and errors are reported as-is.
func (e *Error) Error() string {
	switch v := e.Value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}

// Unwrap returns the panic value if it's an error.
func (e *Error) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Handle handles a panic value, writing it and the current stack to w.
// It returns an *Error for the panic, or nil if pval is nil.
func Handle(pval any, w io.Writer) error {
	if pval == nil {
		return nil
	}

	stack := debug.Stack()
	fmt.Fprintf(w, "panic: %v\n%s", pval, stack)
	return &Error{Value: pval, Stack: stack}
}

// Recover recovers a panic and appends it to the given error.
// Use it with defer.
//
//	defer paniclog.Recover(&err, os.Stderr)
func Recover(err *error, w io.Writer) {
	if pval := recover(); pval != nil {
		*err = multierr.Append(*err, Handle(pval, w))
	}
}
