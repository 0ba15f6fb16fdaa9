// Package apierror carries the error taxonomy shared by all ledger services
// and the HTTP layer. Services return *Error values; handlers map Kind to a
// status code and serialize the envelope. Internal causes (gorm errors, driver
// errors) are wrapped but never leak to clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a ledger error for callers.
type Kind int

const (
	// KindValidation — bad input shape or range, rejected before any write.
	KindValidation Kind = iota
	// KindConfiguration — missing operator configuration (price, default
	// grade); rejected before any write, points to an operator fix.
	KindConfiguration
	// KindConflict — concurrent modification or state conflict (remaining
	// weight changed, receipt already split); caller may retry.
	KindConflict
	// KindNotFound — the referenced entity does not exist.
	KindNotFound
	// KindStorage — transaction or commit failure; surfaced as-is, no
	// partial state persists.
	KindStorage
)

// Error is the canonical service-layer error.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Configuration(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a persistence failure. The wrapped cause is kept for logs;
// clients only see the message.
func Storage(cause error) *Error {
	return &Error{Kind: KindStorage, Message: "storage operation failed", cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindStorage for errors
// that did not originate in a service.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// HTTPStatus maps an error to the response status used by the handlers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the JSON envelope for all 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationEnvelope wraps per-field validation errors.
type ValidationEnvelope struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationEnvelope {
	return &ValidationEnvelope{Detail: "validation error", Fields: fields}
}
