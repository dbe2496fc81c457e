// Package errors provides the coded domain errors used across the catalog server.
//
// Usage:
//
//	// In the core - return typed errors
//	if !cat.HasAuthor(id) {
//	    return errors.Validationf("unknown author %q", id)
//	}
//
//	// At the edges - check with errors.Is
//	if errors.Is(err, errors.ErrLookup) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	// CodeConfiguration marks malformed initial load input.
	CodeConfiguration Code = "CONFIGURATION"
	// CodeDataIntegrity marks a book that references an unknown author or genre.
	CodeDataIntegrity Code = "DATA_INTEGRITY"
	// CodeValidation marks filter criteria or form input that cannot be accepted.
	CodeValidation Code = "VALIDATION"
	// CodeLookup marks an id that is not present where it was looked up.
	CodeLookup Code = "LOOKUP"
	// CodeState marks an operation that is not valid in the current browse state.
	CodeState Code = "STATE"
	// CodeRateLimited marks a rejected request from a client that is submitting too fast.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeInternal marks anything unexpected.
	CodeInternal Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeLookup:
		return http.StatusNotFound
	case CodeState:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeDataIntegrity:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeConfiguration, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
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

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
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
	ErrConfiguration = &Error{Code: CodeConfiguration, Message: "configuration error"}
	ErrDataIntegrity = &Error{Code: CodeDataIntegrity, Message: "data integrity error"}
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrLookup        = &Error{Code: CodeLookup, Message: "not found"}
	ErrState         = &Error{Code: CodeState, Message: "invalid state"}
	ErrRateLimited   = &Error{Code: CodeRateLimited, Message: "rate limited"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// Configuration creates a configuration error.
func Configuration(msg string) *Error {
	return &Error{Code: CodeConfiguration, Message: msg}
}

// Configurationf creates a configuration error with formatted message.
func Configurationf(format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// DataIntegrity creates a data integrity error that names the offending book.
func DataIntegrity(bookID, msg string) *Error {
	return &Error{
		Code:    CodeDataIntegrity,
		Message: fmt.Sprintf("book %q: %s", bookID, msg),
		Details: map[string]string{"book_id": bookID},
	}
}

// DataIntegrityf creates a data integrity error with formatted message.
func DataIntegrityf(bookID, format string, args ...any) *Error {
	return DataIntegrity(bookID, fmt.Sprintf(format, args...))
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

// Lookup creates a lookup error.
func Lookup(msg string) *Error {
	return &Error{Code: CodeLookup, Message: msg}
}

// Lookupf creates a lookup error with formatted message.
func Lookupf(format string, args ...any) *Error {
	return &Error{Code: CodeLookup, Message: fmt.Sprintf(format, args...)}
}

// State creates a state error.
func State(msg string) *Error {
	return &Error{Code: CodeState, Message: msg}
}

// Statef creates a state error with formatted message.
func Statef(format string, args ...any) *Error {
	return &Error{Code: CodeState, Message: fmt.Sprintf(format, args...)}
}

// RateLimited creates a rate limited error.
func RateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
