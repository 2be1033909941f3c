package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner shows a running task with its elapsed time and ends in a
// success or failure line.
type Spinner struct {
	spinner spinner.Model
	message string
	started time.Time
	elapsed time.Duration
	now     func() time.Time
	done    bool
	result  string
	err     error
	styles  spinnerStyles
}

type spinnerStyles struct {
	Message lipgloss.Style
	Elapsed lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func defaultSpinnerStyles() spinnerStyles {
	return spinnerStyles{
		Message: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Elapsed: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// NewSpinner creates a spinner for message. The clock starts now.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return Spinner{
		spinner: s,
		message: message,
		started: time.Now(),
		now:     time.Now,
		styles:  defaultSpinnerStyles(),
	}
}

func (s Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the animation and records the outcome of SpinnerDoneMsg.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	switch msg := msg.(type) {
	case SpinnerDoneMsg:
		s.done = true
		s.elapsed = s.now().Sub(s.started)
		s.result = msg.Result
		s.err = msg.Err
		return s, nil
	case spinner.TickMsg:
		if s.done {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s Spinner) View() string {
	if !s.done {
		return s.spinner.View() + " " + s.styles.Message.Render(s.message) + " " +
			s.styles.Elapsed.Render(formatElapsed(s.now().Sub(s.started)))
	}
	took := " " + s.styles.Elapsed.Render(formatElapsed(s.elapsed))
	if s.err != nil {
		return s.styles.Error.Render("✗ "+s.err.Error()) + took
	}
	return s.styles.Success.Render("✓ "+s.result) + took
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("(%.1fs)", d.Seconds())
}

// SpinnerDoneMsg ends the spinner. A nil Err means success.
type SpinnerDoneMsg struct {
	Result string
	Err    error
}

func SpinnerDone(result string) SpinnerDoneMsg {
	return SpinnerDoneMsg{Result: result}
}

func SpinnerFailed(err error) SpinnerDoneMsg {
	return SpinnerDoneMsg{Err: err}
}

func (s Spinner) IsDone() bool {
	return s.done
}

// Err returns the error if the spinner failed.
func (s Spinner) Err() error {
	return s.err
}
