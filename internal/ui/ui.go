// Package ui renders the spinner and progress bar shown during long
// pipeline steps. When stdout is not a terminal both degrade to plain
// log lines, so output stays readable in CI and in shell pipelines.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Spinner is an indeterminate activity indicator.
type Spinner interface {
	// SetTitle replaces the text next to the spinner.
	SetTitle(title string)

	// Stop halts the spinner. Safe to call more than once.
	Stop()
}

// ProgressBar is a determinate step counter.
type ProgressBar interface {
	// Increment advances the bar by n steps.
	Increment(n int)

	// SetTitle replaces the text next to the bar.
	SetTitle(title string)

	// Done completes the bar at 100%. Safe to call more than once.
	Done()
}

// Reporter hands out spinners and progress bars, picking the animated or
// the plain-text implementation from the terminal state of stdout.
type Reporter struct {
	forced *bool
	writer io.Writer
}

// NewReporter returns a Reporter writing to os.Stdout.
func NewReporter() *Reporter {
	return &Reporter{writer: os.Stdout}
}

// NewPlainReporter returns a Reporter that always uses the plain-text
// implementations and writes them to w. Tests use this to capture output.
func NewPlainReporter(w io.Writer) *Reporter {
	forced := false
	return &Reporter{forced: &forced, writer: w}
}

// Interactive reports whether animated components will be used.
func (r *Reporter) Interactive() bool {
	if r.forced != nil {
		return *r.forced
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ForceInteractive overrides terminal detection in either direction.
func (r *Reporter) ForceInteractive(on bool) {
	r.forced = &on
}

// Spinner returns an indeterminate spinner titled title.
func (r *Reporter) Spinner(title string) Spinner {
	if !r.Interactive() {
		return newPlainSpinner(title, r.writer)
	}
	return newAnimatedSpinner(title)
}

// Progress returns a progress bar for total steps.
func (r *Reporter) Progress(title string, total int) ProgressBar {
	if !r.Interactive() {
		return newPlainProgressBar(title, total, r.writer)
	}
	return newAnimatedProgressBar(title, total)
}
