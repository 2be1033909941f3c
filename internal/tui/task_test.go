package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgframe/internal/tui/components"
)

func TestRunTask_NonInteractiveRunsDirectly(t *testing.T) {
	t.Setenv("PGFRAME_NON_INTERACTIVE", "1")

	calls := 0
	got, err := RunTask(context.Background(), "loading", func(ctx context.Context) (string, error) {
		calls++
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 1, calls)
}

func TestRunTask_NonInteractivePropagatesError(t *testing.T) {
	t.Setenv("PGFRAME_NON_INTERACTIVE", "1")

	boom := errors.New("boom")
	_, err := RunTask(context.Background(), "loading", func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestTaskModel_CancelKeyCancelsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newTaskModel(ctx, cancel, "loading", nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "cancel waits for the task instead of quitting")

	tm := next.(taskModel)
	assert.True(t, tm.cancelling)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Contains(t, tm.View(), "cancelling...")
}

func TestTaskModel_DoneQuitsWithResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newTaskModel(ctx, cancel, "loading", nil)
	next, cmd := m.Update(components.SpinnerDone("3 rows"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	tm := next.(taskModel)
	assert.Equal(t, "3 rows", tm.result)
	assert.NoError(t, tm.err)
	assert.Contains(t, tm.View(), "3 rows")
}

func TestTaskModel_FailureKeepsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("boom")
	m := newTaskModel(ctx, cancel, "loading", nil)
	next, _ := m.Update(components.SpinnerFailed(boom))

	tm := next.(taskModel)
	assert.ErrorIs(t, tm.err, boom)
	assert.Contains(t, tm.View(), "boom")
}
