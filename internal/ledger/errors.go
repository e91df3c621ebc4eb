package ledger

import "fmt"

// Error represents a structured error from the ledger package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeNotFound indicates no anchor exists for the given stream ID.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeDuplicate indicates the stream ID is already anchored.
	ErrCodeDuplicate ErrorCode = "duplicate"

	// ErrCodeNotAuthorized indicates the caller's DID does not own the anchor.
	ErrCodeNotAuthorized ErrorCode = "not_authorized"

	// ErrCodeInternal indicates a database or encoding failure.
	ErrCodeInternal ErrorCode = "internal"
)

// LedgerError represents a structured error from the ledger package.
type LedgerError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *LedgerError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *LedgerError) Code() ErrorCode { return e.code }
func (e *LedgerError) Unwrap() error   { return e.wrapped }

// NewNotFoundError creates an error for a missing anchor.
func NewNotFoundError(streamID string) error {
	return &LedgerError{code: ErrCodeNotFound, message: "no anchor found for " + streamID}
}

// NewDuplicateError creates an error for an already-anchored stream.
func NewDuplicateError(streamID string) error {
	return &LedgerError{code: ErrCodeDuplicate, message: streamID + " is already anchored"}
}

// NewNotAuthorizedError creates an error for a revocation attempt by a DID
// that does not own the anchor.
func NewNotAuthorizedError(msg string) error {
	return &LedgerError{code: ErrCodeNotAuthorized, message: msg}
}

// WrapInternalError wraps an existing error as an internal ledger error.
func WrapInternalError(err error, msg string) error {
	return &LedgerError{code: ErrCodeInternal, message: msg, wrapped: err}
}
