package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// InputError indicates malformed or missing input at an operation boundary.
// Callers must fix the input; retrying the same request will not succeed.
type InputError struct {
	*DomainError
}

func NewInputError(message string) *InputError {
	return &InputError{DomainError: &DomainError{Message: message}}
}

// ValidationError reports a single invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
