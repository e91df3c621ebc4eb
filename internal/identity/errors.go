package identity

import "fmt"

// Error represents a structured error from the identity package
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	ErrCodeValidation    ErrorCode = "validation"
	ErrCodeSignature     ErrorCode = "invalid_signature"
	ErrCodeKeyManagement ErrorCode = "key_management"
	ErrCodeInternal      ErrorCode = "internal"
)

// IdentityError represents a structured error from the identity package
type IdentityError struct {

	// code is the identity error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *IdentityError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *IdentityError) Code() ErrorCode { return e.code }
func (e *IdentityError) Unwrap() error   { return e.wrapped }

// NewValidationError creates a validation error for invalid input.
// Use this for errors related to missing required fields, bad format,
// bad encoding, or unsupported algorithms.
func NewValidationError(msg string) error {
	return &IdentityError{code: ErrCodeValidation, message: msg}
}

// NewSignatureError creates a signature verification error.
func NewSignatureError(msg string) error {
	return &IdentityError{code: ErrCodeSignature, message: msg}
}

// WrapSignatureError wraps an existing error as a signature error.
func WrapSignatureError(err error, msg string) error {
	return &IdentityError{code: ErrCodeSignature, message: msg, wrapped: err}
}

// NewKeyManagementError creates a key management error.
// Use this for errors related to key loading, key generation, key not found,
// invalid key format, or JWK parsing failures.
func NewKeyManagementError(msg string) error {
	return &IdentityError{code: ErrCodeKeyManagement, message: msg}
}

// WrapKeyManagementError wraps an existing error as a key management error.
func WrapKeyManagementError(err error, msg string) error {
	return &IdentityError{code: ErrCodeKeyManagement, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for unexpected failures.
func NewInternalError(msg string) error {
	return &IdentityError{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
func WrapInternalError(err error, msg string) error {
	return &IdentityError{code: ErrCodeInternal, message: msg, wrapped: err}
}
