package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for clients and for HTTP status mapping.
type Kind string

const (
	// KindValidationFailed indicates malformed, missing, or out-of-range input.
	KindValidationFailed Kind = "ValidationFailed"
	// KindUnauthenticated indicates a missing, malformed, or expired credential.
	KindUnauthenticated Kind = "Unauthenticated"
	// KindInvalidCredentials indicates a login attempt with a wrong email or password.
	KindInvalidCredentials Kind = "InvalidCredentials"
	// KindForbidden indicates an authenticated caller without sufficient rights.
	KindForbidden Kind = "Forbidden"
	// KindNotFound indicates a referenced entity does not exist.
	KindNotFound Kind = "NotFound"
	// KindConflict indicates a uniqueness or referential-integrity conflict.
	KindConflict Kind = "Conflict"
	// KindUnhandled indicates an unexpected internal failure.
	KindUnhandled Kind = "Unhandled"
)

// Error carries a kind, a client-safe message, optional per-field detail,
// and the underlying cause (never serialized to clients).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is and errors.As on the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with the given kind and client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and client-safe message to an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation creates a ValidationFailed error carrying per-field detail.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	}
}

// ValidationField creates a ValidationFailed error for a single field.
func ValidationField(field, message string) *Error {
	return Validation(map[string][]string{field: {message}})
}

// NotFound creates a NotFound error naming the missing resource.
func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

// KindOf extracts the kind from any error, defaulting to Unhandled.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnhandled
}

// From returns err as *Error, wrapping unexpected errors as Unhandled with a
// generic message so internal detail never reaches the client.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(KindUnhandled, "an internal error occurred", err)
}

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
