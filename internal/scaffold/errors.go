package scaffold

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDestinationConflict indicates the scaffold destination already holds
// something the scaffolder refuses to write over.
var ErrDestinationConflict = errors.New("scaffold: destination conflict")

// UnknownPlaceholderError reports template tokens that have no metadata
// value. It lists every unknown token in the offending file at once so
// template authors fix them in one pass.
type UnknownPlaceholderError struct {
	File   string
	Tokens []string
}

// Error implements the error interface.
func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("scaffold: unknown placeholder(s) %s in %s",
		strings.Join(e.Tokens, ", "), e.File)
}
