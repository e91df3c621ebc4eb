package request

import "fmt"

// Error represents a structured error from the request package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeContentMissing indicates the claim content is absent or incomplete.
	ErrCodeContentMissing ErrorCode = "content_missing"

	// ErrCodeHashMalformed indicates the property hash set does not cover the
	// claim contents (missing nonce, unknown hash, or count mismatch).
	ErrCodeHashMalformed ErrorCode = "hash_malformed"

	// ErrCodeRootMismatch indicates the recorded root hash does not match the
	// root recomputed from the property hashes.
	ErrCodeRootMismatch ErrorCode = "root_mismatch"

	// ErrCodeSignature indicates a missing or unverifiable creator signature.
	ErrCodeSignature ErrorCode = "signature"

	// ErrCodeDecompression indicates the compressed form is not the expected
	// ordered array.
	ErrCodeDecompression ErrorCode = "decompression"
)

// RequestError represents a structured error from the request package.
type RequestError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *RequestError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *RequestError) Code() ErrorCode { return e.code }
func (e *RequestError) Unwrap() error   { return e.wrapped }

// NewContentMissingError creates an error for absent or incomplete claim content.
func NewContentMissingError(msg string) error {
	return &RequestError{code: ErrCodeContentMissing, message: msg}
}

// NewHashMalformedError creates an error for a property hash set that does not
// cover the claim contents.
func NewHashMalformedError(msg string) error {
	return &RequestError{code: ErrCodeHashMalformed, message: msg}
}

// WrapHashMalformedError wraps an existing error as a hash coverage error.
func WrapHashMalformedError(err error, msg string) error {
	return &RequestError{code: ErrCodeHashMalformed, message: msg, wrapped: err}
}

// NewRootMismatchError creates an error for a root hash that does not match the
// recomputed root.
func NewRootMismatchError(msg string) error {
	return &RequestError{code: ErrCodeRootMismatch, message: msg}
}

// NewSignatureError creates an error for a missing or unverifiable signature.
func NewSignatureError(msg string) error {
	return &RequestError{code: ErrCodeSignature, message: msg}
}

// WrapSignatureError wraps an existing error as a signature error.
func WrapSignatureError(err error, msg string) error {
	return &RequestError{code: ErrCodeSignature, message: msg, wrapped: err}
}

// NewDecompressionError creates an error for a compressed request that is not
// the expected ordered array. The entity name is included for diagnosability.
func NewDecompressionError(length int) error {
	return &RequestError{
		code:    ErrCodeDecompression,
		message: fmt.Sprintf("compressed Request must be a %d-element array, got %d elements", compressedFieldCount, length),
	}
}

// WrapDecompressionError wraps an existing error as a decompression error.
func WrapDecompressionError(err error, msg string) error {
	return &RequestError{code: ErrCodeDecompression, message: msg, wrapped: err}
}
