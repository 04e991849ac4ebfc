package tui

import "github.com/charmbracelet/bubbles/key"

// DuelKeyMap defines the key bindings for a duel.
type DuelKeyMap struct {
	Left  key.Binding
	Right key.Binding
	Pick  key.Binding
	Throw key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k DuelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Pick, k.Throw, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k DuelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Pick, k.Throw},
		{k.Help, k.Quit},
	}
}

// DefaultDuelKeyMap returns default key bindings.
func DefaultDuelKeyMap() DuelKeyMap {
	return DuelKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "move right"),
		),
		Pick: key.NewBinding(
			key.WithKeys("down", "j", " "),
			key.WithHelp("down/space", "pick"),
		),
		Throw: key.NewBinding(
			key.WithKeys("up", "k", "enter"),
			key.WithHelp("up/enter", "throw"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
