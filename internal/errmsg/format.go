// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants.
const (
	// Configuration
	OpConfigLoad Op = "load configuration"

	// Tag operations
	OpTagsOpen Op = "open tags"
	OpTagsSave Op = "save tags"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error is an operation failure carrying its context (usually a file path).
type Error struct {
	Op      Op
	Context string
	Err     error
}

// Wrap returns an *Error for err, or nil when err is nil.
func Wrap(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Context: context, Err: err}
}

func (e *Error) Error() string {
	return FormatWith(e.Op, e.Context, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
