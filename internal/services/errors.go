package services

import (
	"errors"
	"fmt"
)

// Service-level failures. Handlers translate these into transport status
// codes in one place; the services themselves never write responses.
var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	ErrStorage   = errors.New("storage operation failed")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func storageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
