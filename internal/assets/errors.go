package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for asset refresh.
var (
	// ErrAssemblyMissing indicates a required game assembly does not exist
	// in the Managed directory.
	ErrAssemblyMissing = errors.New("assets: required assembly missing")

	// ErrGameVersionUnknown indicates the installed game version could not
	// be determined from any marker file or assembly metadata.
	ErrGameVersionUnknown = errors.New("assets: game version unknown")
)

// DecompileError reports a failed decompiler run. Partial output stays on
// disk for inspection; the refresh pipeline continues past it.
type DecompileError struct {
	Dir    string
	Output string
	Err    error
}

// Error implements the error interface.
func (e *DecompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "assets: decompilation failed: %v", e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	fmt.Fprintf(&b, "\npartial output left in %s for inspection", e.Dir)
	return b.String()
}

// Unwrap returns the underlying tool error.
func (e *DecompileError) Unwrap() error {
	return e.Err
}
