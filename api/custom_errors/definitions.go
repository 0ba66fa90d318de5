package custom_errors

import (
	"errors"
	"strings"
)

var (
	ErrConflict          = errors.New("record already exists")
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("Invalid email or password")
	ErrInternalServer    = errors.New("internal server error")
	ErrRateLimited       = errors.New("Too many requests, please try again later")
	ErrSurveyUnavailable = errors.New("survey is currently unavailable")
)

// ValidationError carries every violation found in a request so they can be
// reported together.
type ValidationError struct {
	Message string
	Errors  []string
}

func NewValidationError(message string, errs ...string) *ValidationError {
	return &ValidationError{Message: message, Errors: errs}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

// Add appends a violation.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

type notFoundError struct {
	resource string
}

func (e notFoundError) Error() string { return e.resource + " not found" }

func (e notFoundError) Unwrap() error { return ErrNotFound }

// NotFound reports a missing resource by name. It matches ErrNotFound.
func NotFound(resource string) error {
	return notFoundError{resource: resource}
}
