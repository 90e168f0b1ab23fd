// Package errors provides structured errors with HTTP status mapping and an echo
// middleware that renders them as JSON.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category of an error, used for metrics labels and response bodies.
type ErrorType string

const (
	TypeValidation  ErrorType = "validation"
	TypeNotFound    ErrorType = "not_found"
	TypeRateLimited ErrorType = "rate_limited"
	TypeUnavailable ErrorType = "unavailable"
	TypeInternal    ErrorType = "internal"
)

// Error is a structured error with a client-safe message and optional fields.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for the error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause, Fields: make(map[string]any)}
}

// ValidationError creates a 400 error. cause may be nil.
func ValidationError(message string, cause error) *Error {
	return newError(TypeValidation, message, cause)
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

// RateLimitedError creates a 429 error.
func RateLimitedError(message string) *Error {
	return newError(TypeRateLimited, message, nil)
}

// UnavailableError creates a 503 error for a failing dependency.
func UnavailableError(message string, cause error) *Error {
	return newError(TypeUnavailable, message, cause)
}

// InternalError creates a 500 error. The cause is logged, never sent to the client.
func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

// WithField attaches a field to the response and log line (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// ErrorResponse is the JSON body sent to clients.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Type   ErrorType      `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Type:   e.Type,
		Fields: e.Fields,
	}
}

// Mapper translates package-specific errors (sentinels, typed errors) into structured
// errors. It returns nil for errors it does not recognize.
type Mapper func(err error) *Error

// AsStructuredError converts any error into a structured Error. An *Error in the chain
// is returned unchanged; otherwise each mapper is consulted in order, and anything left
// becomes an internal error.
func AsStructuredError(err error, mappers ...Mapper) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	for _, m := range mappers {
		if mapped := m(err); mapped != nil {
			return mapped
		}
	}

	return InternalError("internal server error", err)
}
