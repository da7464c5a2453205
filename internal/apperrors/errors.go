package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrSchemaViolation indicates a tabular input that does not fit its entity schema
// (missing required column or a value of the wrong type).
var ErrSchemaViolation = errors.New("schema violation")

// ErrReferentialIntegrity indicates a reference to an account or tax code that is not defined.
var ErrReferentialIntegrity = errors.New("referential integrity violation")

// ErrAmbiguousTaxAssignment indicates that neither or both legs of a posting carry a tax designation.
var ErrAmbiguousTaxAssignment = errors.New("ambiguous tax assignment")

// ErrUnresolvedFxRate indicates that no price observation exists on or before the requested date.
var ErrUnresolvedFxRate = errors.New("unresolved fx rate")

// ErrUnsupportedDayCount indicates an unknown day count convention.
var ErrUnsupportedDayCount = errors.New("unsupported day count convention")

// ErrInvalidRange indicates an account range expression that cannot be resolved.
var ErrInvalidRange = errors.New("invalid account range")

// AppError carries a status-like code alongside a wrapped cause.
// Adapters use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
