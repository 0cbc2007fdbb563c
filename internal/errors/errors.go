// Package errors provides standardized domain errors with codes for the
// data lifecycle engine.
//
// Usage:
//
//	// In library code - return typed errors
//	if !ok {
//	    return errors.UnknownScenario("no scenario named " + name)
//	}
//
//	// In orchestration code - check with errors.Is
//	if errors.Is(err, errors.ErrStoreUnavailable) {
//	    // abort the reset sequence
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the engine.
const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeValidation        Code = "VALIDATION"
	CodeStoreUnavailable  Code = "STORE_UNAVAILABLE"
	CodePartialWrite      Code = "PARTIAL_WRITE"
	CodeUnknownScenario   Code = "UNKNOWN_SCENARIO"
	CodeUnknownResetState Code = "UNKNOWN_RESET_STATE"
	CodeReconciliation    Code = "RECONCILIATION"
	CodeInternal          Code = "INTERNAL"
)

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict          = &Error{Code: CodeConflict, Message: "conflict"}
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation error"}
	ErrStoreUnavailable  = &Error{Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrPartialWrite      = &Error{Code: CodePartialWrite, Message: "partial write"}
	ErrUnknownScenario   = &Error{Code: CodeUnknownScenario, Message: "unknown scenario"}
	ErrUnknownResetState = &Error{Code: CodeUnknownResetState, Message: "unknown reset state"}
	ErrReconciliation    = &Error{Code: CodeReconciliation, Message: "reconciliation failure"}
	ErrInternal          = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: msg}
}

// StoreUnavailablef creates a store unavailable error with formatted message.
func StoreUnavailablef(format string, args ...any) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: fmt.Sprintf(format, args...)}
}

// PartialWrite creates a partial write error.
func PartialWrite(msg string) *Error {
	return &Error{Code: CodePartialWrite, Message: msg}
}

// UnknownScenario creates an unknown scenario error.
func UnknownScenario(msg string) *Error {
	return &Error{Code: CodeUnknownScenario, Message: msg}
}

// UnknownResetState creates an unknown reset state error.
func UnknownResetState(msg string) *Error {
	return &Error{Code: CodeUnknownResetState, Message: msg}
}

// Reconciliation creates a reconciliation error.
func Reconciliation(msg string) *Error {
	return &Error{Code: CodeReconciliation, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
