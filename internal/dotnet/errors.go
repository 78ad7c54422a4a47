package dotnet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrArtifactMissing indicates the compiler exited successfully but the
// expected artifact does not exist, which points at a pipeline
// misconfiguration rather than broken code.
var ErrArtifactMissing = errors.New("dotnet: compiler reported success but the artifact is missing")

// BuildError reports a compiler run that exited non-zero, with the
// tool's combined output preserved verbatim.
type BuildError struct {
	Project string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dotnet: build of %s failed: %v", e.Project, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

// Unwrap returns the underlying exec error.
func (e *BuildError) Unwrap() error {
	return e.Err
}
