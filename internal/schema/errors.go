package schema

import "fmt"

// Error represents a structured error from the schema package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeDefinition indicates the schema definition itself is malformed
	// (unknown property type, required name not declared, empty definition).
	ErrCodeDefinition ErrorCode = "definition"

	// ErrCodeInternal indicates an unexpected failure building or evaluating
	// the schema.
	ErrCodeInternal ErrorCode = "internal"
)

// SchemaError represents a structured error from the schema package.
type SchemaError struct {
	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *SchemaError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *SchemaError) Code() ErrorCode { return e.code }
func (e *SchemaError) Unwrap() error   { return e.wrapped }

// NewDefinitionError creates an error for a malformed schema definition.
func NewDefinitionError(msg string) error {
	return &SchemaError{code: ErrCodeDefinition, message: msg}
}

// WrapInternalError wraps an existing error as an internal schema error.
func WrapInternalError(err error, msg string) error {
	return &SchemaError{code: ErrCodeInternal, message: msg, wrapped: err}
}
