package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/pgframe/internal/tui/components"
)

// TaskFunc does the work behind a spinner and returns the line shown on success.
type TaskFunc func(ctx context.Context) (string, error)

// RunTask runs fn. In interactive mode a spinner is drawn on stderr until fn
// returns; the cancel key cancels the context handed to fn and RunTask waits
// for fn to observe it. In non-interactive mode fn runs without decoration.
func RunTask(ctx context.Context, message string, fn TaskFunc) (string, error) {
	if !IsInteractive() {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	final, err := tea.NewProgram(newTaskModel(ctx, cancel, message, fn), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", fmt.Errorf("progress display: %w", err)
	}
	m := final.(taskModel)
	return m.result, m.err
}

type taskModel struct {
	ctx        context.Context
	cancel     context.CancelFunc
	run        TaskFunc
	spinner    components.Spinner
	keys       KeyMap
	cancelling bool
	finished   bool
	result     string
	err        error
}

func newTaskModel(ctx context.Context, cancel context.CancelFunc, message string, fn TaskFunc) taskModel {
	return taskModel{
		ctx:     ctx,
		cancel:  cancel,
		run:     fn,
		spinner: components.NewSpinner(message),
		keys:    DefaultKeyMap(),
	}
}

func (m taskModel) Init() tea.Cmd {
	ctx, run := m.ctx, m.run
	return tea.Batch(m.spinner.Init(), func() tea.Msg {
		result, err := run(ctx)
		if err != nil {
			return components.SpinnerFailed(err)
		}
		return components.SpinnerDone(result)
	})
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) && !m.cancelling {
			m.cancelling = true
			m.cancel()
		}
		return m, nil
	case components.SpinnerDoneMsg:
		m.spinner, _ = m.spinner.Update(msg)
		m.finished = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m taskModel) View() string {
	if m.finished {
		return m.spinner.View() + "\n"
	}
	hint := m.keys.HelpText()
	if m.cancelling {
		hint = "cancelling..."
	}
	return m.spinner.View() + "\n" + HelpStyle.Render(hint) + "\n"
}
