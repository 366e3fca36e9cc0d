package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound no local task record with the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrPatientNotFound the patient service has no patient with the
	// given identifier. Distinct from ErrTaskNotFound so handlers can
	// report which record is missing.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrRegistryUnavailable the patient service is unreachable or
	// returned a server error. Not the same as a 404.
	ErrRegistryUnavailable = errors.New("patient service unavailable")
)

// ValidationError a required structured field is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
