// Package execx runs external tools behind a narrow interface so pipeline
// logic stays testable without the real tools installed.
package execx

import (
	"context"
	"errors"
	"os/exec"
)

// Runner executes an external tool to completion and returns its combined
// stdout and stderr. Output is returned even when err is non-nil so callers
// can surface the tool's diagnostics verbatim.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// System is the Runner backed by os/exec. The zero value is ready to use.
type System struct{}

// Run executes name with args in dir, blocking until the tool exits or ctx
// is canceled.
func (System) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// IsNotInstalled reports whether err means the tool binary could not be
// found on PATH, so callers can suggest how to install it.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
