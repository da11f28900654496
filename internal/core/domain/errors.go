package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer classifies with errors.Is against these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrStoreNotFound      = fmt.Errorf("store %w", ErrNotFound)
	ErrRatingNotFound     = fmt.Errorf("rating %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("user with this email already exists: %w", ErrConflict)
	ErrStoreEmailTaken    = fmt.Errorf("store with this email already exists: %w", ErrConflict)
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
