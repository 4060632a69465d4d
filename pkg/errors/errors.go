package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable machine-readable error category.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindInvalidTimeFormat Kind = "invalid_time_format"
	KindCrossesMidnight   Kind = "crosses_midnight"
	KindInternal          Kind = "internal"
)

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status. Consumed by the
// handlers' respond helpers; internal detail is never exposed.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindInvalidTimeFormat, KindCrossesMidnight, KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func InvalidTransition(message string) *AppError {
	return &AppError{Kind: KindInvalidTransition, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func InvalidTimeFormat(value string) *AppError {
	return &AppError{Kind: KindInvalidTimeFormat, Message: fmt.Sprintf("invalid time %q, expected HH:MM", value)}
}

func CrossesMidnight(start string, duration int) *AppError {
	return &AppError{
		Kind:    KindCrossesMidnight,
		Message: fmt.Sprintf("slot starting at %s with duration %d minutes would cross midnight", start, duration),
	}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the kind from err. Anything that is not an AppError
// is reported as internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
