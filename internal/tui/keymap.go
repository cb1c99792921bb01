package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the review shortcuts.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Approve     key.Binding
	Correct     key.Binding
	Comment     key.Binding
	Analyze     key.Binding
	CycleRange  key.Binding
	ToggleSmall key.Binding
	Issues      key.Binding
	Help        key.Binding
	Quit        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "omhoog"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "omlaag"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "goedkeuren"),
		),
		Correct: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "corrigeren"),
		),
		Comment: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "opmerking"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "AI analyse"),
		),
		CycleRange: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "periode"),
		),
		ToggleSmall: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "kleine bedragen"),
		),
		Issues: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "volledigheid"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "afsluiten"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "opslaan"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "annuleren"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Correct, k.Comment, k.Analyze, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Approve, k.Correct, k.Comment},
		{k.Analyze, k.CycleRange, k.ToggleSmall, k.Issues},
		{k.Help, k.Quit},
	}
}
