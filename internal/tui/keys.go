package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Diff    key.Binding
	View    key.Binding
	Accept  key.Binding
	Reject  key.Binding
	Pattern key.Binding
	Refresh key.Binding
	Output  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/run")),
	Diff:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "diff")),
	View:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "side-by-side diff")),
	Accept:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept")),
	Reject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
	Pattern: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "diff patterns")),
	Refresh: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh")),
	Output:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "close output")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
