// Package apperr defines the error taxonomy shared by the data, service and
// handler layers. Lower layers wrap these with fmt.Errorf("...: %w") and the
// HTTP edge maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	// ErrUnavailable marks an optional backend that is not configured.
	ErrUnavailable = errors.New("unavailable")
)

// Error pairs a taxonomy sentinel with a message that is safe to show to
// end users.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Validation returns an ErrValidation with a user-facing message.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound naming the missing resource.
func NotFound(resource string) error {
	return &Error{Kind: ErrNotFound, Msg: resource + " not found"}
}

// Conflict returns an ErrConflict with a user-facing message.
func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden returns an ErrForbidden with a user-facing message.
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Msg: msg}
}

// StatusCode maps an error chain to an HTTP status code.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text that may be shown to an end user. Anything
// outside the taxonomy collapses to a generic message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	switch StatusCode(err) {
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "You do not have access to this resource"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusConflict:
		return "Resource already exists"
	case http.StatusServiceUnavailable:
		return "This feature is not available"
	default:
		return "Something went wrong. Please try again."
	}
}
