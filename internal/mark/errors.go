package mark

// errors.go defines the validation error taxonomy for marks.
//
// Every failure is terminal (not retryable) and carries a distinguishable
// code; callers are responsible for translating codes into user-facing
// messages. Failures raised by the nested request/stream validators and
// codecs are propagated unchanged, not wrapped.

import "fmt"

// Error represents a structured error from the mark package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeContentNotProvided indicates the content stream is absent.
	ErrCodeContentNotProvided ErrorCode = "content_not_provided"

	// ErrCodeRequestNotProvided indicates the content-stream request is absent.
	ErrCodeRequestNotProvided ErrorCode = "request_not_provided"

	// ErrCodeContentUnverifiable indicates the cross-entity consistency check
	// failed: the content stream cannot be shown to derive from the request.
	ErrCodeContentUnverifiable ErrorCode = "content_unverifiable"

	// ErrCodeDecompression indicates the compressed form is not the expected
	// 2-element ordered array.
	ErrCodeDecompression ErrorCode = "decompression"
)

// MarkError represents a structured error from the mark package.
type MarkError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *MarkError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *MarkError) Code() ErrorCode { return e.code }
func (e *MarkError) Unwrap() error   { return e.wrapped }

// NewContentNotProvidedError creates an error for a mark with no content stream.
func NewContentNotProvidedError() error {
	return &MarkError{code: ErrCodeContentNotProvided, message: "content is required"}
}

// NewRequestNotProvidedError creates an error for a mark with no request.
func NewRequestNotProvidedError() error {
	return &MarkError{code: ErrCodeRequestNotProvided, message: "request is required"}
}

// NewContentUnverifiableError creates an error for a mark whose content stream
// cannot be shown to derive from its request.
func NewContentUnverifiableError() error {
	return &MarkError{code: ErrCodeContentUnverifiable, message: "content could not be verified against the request"}
}

// NewDecompressionError creates an error for a compressed mark that is not the
// expected 2-element ordered array. The entity name is included for
// diagnosability.
func NewDecompressionError(length int) error {
	return &MarkError{
		code:    ErrCodeDecompression,
		message: fmt.Sprintf("compressed Mark must be a 2-element array, got %d elements", length),
	}
}

// WrapDecompressionError wraps an existing error as a decompression error.
func WrapDecompressionError(err error, msg string) error {
	return &MarkError{code: ErrCodeDecompression, message: msg, wrapped: err}
}
