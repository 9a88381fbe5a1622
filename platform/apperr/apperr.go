// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors and the command layer maps them to
// process exit codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindInvalidInput indicates a missing, malformed or non-finite input value.
	KindInvalidInput
	// KindNotFound indicates a record was not found.
	KindNotFound
	// KindConflict indicates the request conflicts with the current state.
	KindConflict
	// KindInternal indicates an unexpected failure in a collaborator (storage, queue).
	KindInternal
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
	Details any    // Additional details for the caller (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this error kind.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindInvalidInput:
		return 2
	case KindNotFound:
		return 3
	case KindConflict:
		return 4
	default:
		return 1
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation on the error and returns it.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional details on the error and returns it.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// InvalidInput creates an invalid input error.
func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Internal creates an internal error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// ExitCode returns the exit code for any error; nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return 1
}
