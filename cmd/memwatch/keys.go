package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the dashboard
type KeyMap struct {
	Pause  key.Binding
	Step   key.Binding
	Burst  key.Binding
	Drain  key.Binding
	Faster key.Binding
	Slower key.Binding
	Help   key.Binding
	Esc    key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "pause/resume workload"),
		),
		Step: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "single step (while paused)"),
		),
		Burst: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "allocate a burst of blocks"),
		),
		Drain: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "free every live block"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "double churn rate"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "halve churn rate"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
