// Package domainerrors provides coded domain errors.
//
// Services return these so transport layers can translate failures into
// status codes without string matching. Infrastructure facts (missing row,
// duplicate key) are reported by stores as pkg/platform/sentinel errors and
// translated here at the service boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed input at the boundary: a non-positive
	// payment amount, an empty required field.
	CodeValidation Code = "validation"

	// CodeNotFound marks a referenced record id that does not resolve.
	CodeNotFound Code = "not_found"

	// CodeConflict marks an operation rejected by current state: unpaid
	// fines, an overdue loan, the loan limit, no copies available.
	CodeConflict Code = "conflict"

	// CodeUnauthorized marks a failed credential check.
	CodeUnauthorized Code = "unauthorized"

	// CodeInvariantViolation marks an entity invariant breach. Seeing this
	// outside constructors means corrupted data reached the domain layer.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks an unexpected failure, typically wrapped store I/O.
	CodeInternal Code = "internal"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As so store failures propagate unmasked.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// CodeOf returns the code of the outermost coded error in the chain, or
// CodeInternal when the error carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
