package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings honoured while a task runs.
type KeyMap struct {
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}

// HelpText returns the hint shown under a running task.
func (k KeyMap) HelpText() string {
	return k.Cancel.Help().Key + " " + k.Cancel.Help().Desc
}
