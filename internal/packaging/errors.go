package packaging

import (
	"errors"
	"fmt"
)

// Sentinel errors for packaging and install.
var (
	// ErrManifestNotFound indicates the project has no Manifest.json.
	ErrManifestNotFound = errors.New("packaging: manifest not found")

	// ErrManifestVersion indicates the manifest's version field is absent
	// or not a semantic version.
	ErrManifestVersion = errors.New("packaging: manifest version missing or malformed")

	// ErrNoPackageFound indicates a standalone install found no staged
	// package for the manifest's current version.
	ErrNoPackageFound = errors.New("packaging: no package found")
)

// StageError reports a failure while assembling a package directory. The
// partial directory is kept on disk so the operator can inspect what was
// written before the failure.
type StageError struct {
	Dir string
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("packaging: staging failed: %v (partial package kept at %s; inspect or delete it manually)", e.Err, e.Dir)
}

// Unwrap returns the underlying filesystem error.
func (e *StageError) Unwrap() error {
	return e.Err
}
