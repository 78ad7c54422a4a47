package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rust-red brand colors shared by the spinner and the bar gradient.
const (
	gradientFrom = "#C45A3C"
	gradientTo   = "#DA7756"
)

var spinnerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: gradientFrom, Dark: gradientTo})

// --- animated spinner ---

// spinnerTitleMsg updates the spinner title.
type spinnerTitleMsg string

// spinnerStopMsg stops the spinner.
type spinnerStopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(title string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = spinnerStyle
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTitleMsg:
		m.title = string(msg)
		return m, nil
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// animatedSpinner runs the spinner model in its own tea.Program.
type animatedSpinner struct {
	program *tea.Program
	once    sync.Once
}

func newAnimatedSpinner(title string) *animatedSpinner {
	p := tea.NewProgram(newSpinnerModel(title))
	s := &animatedSpinner{program: p}

	go func() {
		_, _ = p.Run()
	}()

	return s
}

func (s *animatedSpinner) SetTitle(title string) {
	s.program.Send(spinnerTitleMsg(title))
}

func (s *animatedSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(spinnerStopMsg{})
		s.program.Wait()
	})
}

// --- animated progress bar ---

// progressIncrMsg advances the bar by n steps.
type progressIncrMsg int

// progressTitleMsg updates the bar title.
type progressTitleMsg string

// progressDoneMsg completes the bar.
type progressDoneMsg struct{}

type progressModel struct {
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newProgressModel(title string, total int) progressModel {
	bar := progress.New(
		progress.WithGradient(gradientFrom, gradientTo),
		progress.WithWidth(40),
	)
	return progressModel{bar: bar, title: title, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressIncrMsg:
		m.current += int(msg)
		if m.current > m.total {
			m.current = m.total
		}
		return m, nil
	case progressTitleMsg:
		m.title = string(msg)
		return m, nil
	case progressDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + fmt.Sprintf(" [%d/%d] %s\n", m.current, m.total, m.title)
}

// animatedProgressBar runs the progress model in its own tea.Program.
type animatedProgressBar struct {
	program *tea.Program
	once    sync.Once
}

func newAnimatedProgressBar(title string, total int) *animatedProgressBar {
	p := tea.NewProgram(newProgressModel(title, total))
	pb := &animatedProgressBar{program: p}

	go func() {
		_, _ = p.Run()
	}()

	return pb
}

func (b *animatedProgressBar) Increment(n int) {
	b.program.Send(progressIncrMsg(n))
}

func (b *animatedProgressBar) SetTitle(title string) {
	b.program.Send(progressTitleMsg(title))
}

func (b *animatedProgressBar) Done() {
	b.once.Do(func() {
		b.program.Send(progressDoneMsg{})
		b.program.Wait()
	})
}

// --- plain fallbacks ---

// plainSpinner prints each title once as a log line.
type plainSpinner struct {
	writer io.Writer
}

func newPlainSpinner(title string, w io.Writer) *plainSpinner {
	s := &plainSpinner{writer: w}
	_, _ = fmt.Fprintln(w, title)
	return s
}

func (s *plainSpinner) SetTitle(title string) {
	_, _ = fmt.Fprintln(s.writer, title)
}

func (s *plainSpinner) Stop() {}

// plainProgressBar prints one [done/total] line per step.
type plainProgressBar struct {
	title   string
	total   int
	current int
	writer  io.Writer
}

func newPlainProgressBar(title string, total int, w io.Writer) *plainProgressBar {
	return &plainProgressBar{title: title, total: total, writer: w}
}

func (b *plainProgressBar) Increment(n int) {
	b.current += n
	if b.current > b.total {
		b.current = b.total
	}
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
}

func (b *plainProgressBar) SetTitle(title string) {
	b.title = title
}

func (b *plainProgressBar) Done() {
	b.current = b.total
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
}
