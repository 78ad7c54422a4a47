package gamepath

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for path resolution.
var (
	// ErrManagedDirNotFound indicates no Managed assembly directory exists
	// among the probed candidates.
	ErrManagedDirNotFound = errors.New("gamepath: managed directory not found")

	// ErrModsDirNotFound indicates no MODS directory exists among the
	// probed candidates.
	ErrModsDirNotFound = errors.New("gamepath: mods directory not found")
)

// NotFoundError reports a required game directory that could not be
// located, listing every candidate probed and the variable that overrides
// detection.
type NotFoundError struct {
	What       string
	EnvVar     string
	Candidates []string

	sentinel error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not locate %s; checked:", e.What)
	if len(e.Candidates) == 0 {
		b.WriteString("\n  - (no predefined locations)")
	}
	for _, candidate := range e.Candidates {
		b.WriteString("\n  - ")
		b.WriteString(candidate)
	}
	fmt.Fprintf(&b, "\nset %s in your environment or in the project's .env file to override detection", e.EnvVar)
	return b.String()
}

// Unwrap returns the matching sentinel so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error {
	return e.sentinel
}
