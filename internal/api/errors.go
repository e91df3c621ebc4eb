// Package api implements the HTTP surface shared by the mark server handlers:
// transport-level error codes, the error response format, and JSON response
// helpers.
package api

import "fmt"

// Error is the interface implemented by structured api package errors.
type Error interface {
	error
	Code() ErrorCode
}

// ErrorCode identifies transport-level failures that occur before a request
// reaches the domain packages.
type ErrorCode string

const (
	// ErrCodeMalformedRequest is used when JSON parsing or decoding fails.
	ErrCodeMalformedRequest ErrorCode = "malformed_request"

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware.
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware.
	ErrCodeRequestTooLarge ErrorCode = "request_too_large"

	// ErrCodeInternal is used when an internal server error occurs.
	ErrCodeInternal ErrorCode = "internal"
)

// APIError represents a structured transport-level error.
type APIError struct {
	code    ErrorCode
	message string
	wrapped error
}

func (e *APIError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *APIError) Code() ErrorCode { return e.code }
func (e *APIError) Unwrap() error   { return e.wrapped }

// NewMalformedRequestError creates an error for malformed requests.
func NewMalformedRequestError(msg string) error {
	return &APIError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps an existing error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &APIError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewRateLimitError creates a rate limit exceeded error.
func NewRateLimitError(msg string) error {
	return &APIError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates a request too large error.
func NewRequestTooLargeError(msg string) error {
	return &APIError{code: ErrCodeRequestTooLarge, message: msg}
}

// WrapInternalError wraps an existing error as an internal server error.
func WrapInternalError(err error, msg string) error {
	return &APIError{code: ErrCodeInternal, message: msg, wrapped: err}
}
