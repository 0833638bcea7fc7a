// Package apierror provides standardized error response structures for the API
// and the typed domain errors the services surface. All errors returned to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error so handlers can map it to an HTTP status
// without string-matching messages.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidState      Kind = "invalid_state"
	KindValidation        Kind = "validation"
	KindInsufficientStock Kind = "insufficient_stock"
	KindConfiguration     Kind = "configuration"
)

// Error is the domain error type returned by services.
type Error struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

func NotFound(msg string) *Error          { return &Error{Kind: KindNotFound, Detail: msg} }
func Forbidden(msg string) *Error         { return &Error{Kind: KindForbidden, Detail: msg} }
func InvalidState(msg string) *Error      { return &Error{Kind: KindInvalidState, Detail: msg} }
func Validation(msg string) *Error        { return &Error{Kind: KindValidation, Detail: msg} }
func InsufficientStock(msg string) *Error { return &Error{Kind: KindInsufficientStock, Detail: msg} }
func Configuration(msg string) *Error     { return &Error{Kind: KindConfiguration, Detail: msg} }

// KindOf extracts the Kind from err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps a domain error kind to its response status. Unknown errors
// map to 500 — the handler must then respond with a generic detail.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState, KindInsufficientStock:
		return http.StatusConflict
	case KindValidation, KindConfiguration:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Kind   Kind   `json:"kind,omitempty"`
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromErr builds the response envelope for a service error, hiding the
// message of anything that is not a typed domain error.
func FromErr(err error) *APIError {
	var e *Error
	if errors.As(err, &e) {
		return &APIError{Kind: e.Kind, Detail: e.Detail}
	}
	return &APIError{Detail: "Error interno del servidor"}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
