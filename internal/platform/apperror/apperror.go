// Package apperror defines the typed error kinds shared by all services.
// Services return these instead of bare fmt.Errorf values so the HTTP layer
// can map errors to status codes without inspecting message text.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
)

// Error carries a kind, a machine-readable code and a human-readable message.
// Messages are in Spanish: they travel to the front end unchanged.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a not-found error.
func NotFound(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a domain-rule violation error.
func Validation(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a uniqueness/state conflict error.
func Conflict(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error. The wrapped cause is logged but never
// serialized to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "Error interno del servidor", Err: err}
}

// KindOf extracts the kind from any error. Unknown errors are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
