// Package apperr defines the closed set of error kinds every usecase and
// transport boundary in the system speaks. Failures are created through the
// constructors below and converted into response-ready records by Normalize.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one of the recognized failure categories.
type Kind string

const (
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindForbidden      Kind = "FORBIDDEN"
	KindValidation     Kind = "VALIDATION_ERROR"
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindNotImplemented Kind = "NOT_IMPLEMENTED"
	KindInternal       Kind = "INTERNAL_ERROR"
)

// httpStatuses maps each kind to its fixed transport status.
var httpStatuses = map[Kind]int{
	KindUnauthorized:   http.StatusUnauthorized,
	KindForbidden:      http.StatusForbidden,
	KindValidation:     http.StatusBadRequest,
	KindNotFound:       http.StatusNotFound,
	KindConflict:       http.StatusBadRequest,
	KindNotImplemented: http.StatusNotImplemented,
	KindInternal:       http.StatusInternalServerError,
}

// HTTPStatus returns the transport status for a kind. Unknown kinds map to 500.
func (k Kind) HTTPStatus() int {
	if status, ok := httpStatuses[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FieldError describes a single failed input constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the one failure type the whole system throws. Only Validation
// errors carry FieldErrors.
type Error struct {
	Kind        Kind
	Message     string
	FieldErrors []FieldError
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// Unauthorized signals a missing or invalid session.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden signals a valid session with an insufficient role.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation signals malformed input with per-field detail.
func Validation(message string, fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, FieldErrors: fields}
}

// NotFound signals a missing entity. It is also used for entities the caller
// is not allowed to see, so existence cannot be probed.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict signals a structurally valid request that violates a state
// invariant, e.g. an illegal order status transition.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotImplemented marks a deliberate stub.
func NotImplemented(message string) *Error {
	return &Error{Kind: KindNotImplemented, Message: message}
}

// Internal wraps an unanticipated failure. The cause is retained for logging
// but never surfaced to clients.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
