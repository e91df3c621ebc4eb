package stream

import "fmt"

// Error represents a structured error from the stream package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeInvalid indicates a structurally invalid stream (missing fields
	// or an identifier that does not match its derivation).
	ErrCodeInvalid ErrorCode = "stream_invalid"

	// ErrCodeSignature indicates a missing or unverifiable issuer signature.
	ErrCodeSignature ErrorCode = "signature"

	// ErrCodeDecompression indicates the compressed form is not the expected
	// ordered array.
	ErrCodeDecompression ErrorCode = "decompression"
)

// StreamError represents a structured error from the stream package.
type StreamError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *StreamError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *StreamError) Code() ErrorCode { return e.code }
func (e *StreamError) Unwrap() error   { return e.wrapped }

// NewInvalidError creates an error for a structurally invalid stream.
func NewInvalidError(msg string) error {
	return &StreamError{code: ErrCodeInvalid, message: msg}
}

// NewSignatureError creates an error for a missing or unverifiable signature.
func NewSignatureError(msg string) error {
	return &StreamError{code: ErrCodeSignature, message: msg}
}

// WrapSignatureError wraps an existing error as a signature error.
func WrapSignatureError(err error, msg string) error {
	return &StreamError{code: ErrCodeSignature, message: msg, wrapped: err}
}

// NewDecompressionError creates an error for a compressed stream that is not
// the expected ordered array.
func NewDecompressionError(length int) error {
	return &StreamError{
		code:    ErrCodeDecompression,
		message: fmt.Sprintf("compressed Stream must be a %d-element array, got %d elements", compressedFieldCount, length),
	}
}

// WrapDecompressionError wraps an existing error as a decompression error.
func WrapDecompressionError(err error, msg string) error {
	return &StreamError{code: ErrCodeDecompression, message: msg, wrapped: err}
}
