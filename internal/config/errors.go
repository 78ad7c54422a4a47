package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for project configuration.
var (
	// ErrNotFound indicates no hosmod.yaml was found for the project.
	ErrNotFound = errors.New("config: project settings not found")

	// ErrInvalid indicates hosmod.yaml failed validation.
	ErrInvalid = errors.New("config: invalid project settings")
)

// ValidationError reports a single invalid or missing hosmod.yaml field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: field %q: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalid so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
