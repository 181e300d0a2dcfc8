package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the repository, service and server layers.
// Handlers translate them into HTTP status codes with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("not allowed to modify this resource")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
