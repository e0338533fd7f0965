package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the HTTP boundary can translate
// it into a status code without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindInvalidCredentials
	KindDatabase
)

// Error is the single error type crossing service boundaries. Message is
// safe to return to clients; Err carries the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation reports malformed or missing input.
func Validation(message string) *Error {
	return newError(KindValidation, message)
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return newError(KindConflict, message)
}

// NotFound reports a missing or expired entity.
func NotFound(message string) *Error {
	return newError(KindNotFound, message)
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message)
}

// Forbidden reports an authenticated caller with insufficient role or scope.
func Forbidden(message string) *Error {
	return newError(KindForbidden, message)
}

// InvalidCredentials reports a password mismatch. Kept distinct from
// NotFound so callers can choose uniform "invalid email or password"
// messaging without losing the distinction internally.
func InvalidCredentials(message string) *Error {
	return newError(KindInvalidCredentials, message)
}

// Database wraps a persistence failure with operation context.
func Database(operation string, err error) *Error {
	return &Error{
		Kind:    KindDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Err:     err,
	}
}

// KindOf returns the Kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the client-safe message of err. Foreign errors get a
// generic message so internals never leak to clients.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindDatabase || appErr.Kind == KindUnknown {
			return "Internal server error"
		}
		return appErr.Message
	}
	return "Internal server error"
}
