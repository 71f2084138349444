package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Photo  key.Binding
	Text   key.Binding
	Delete key.Binding
	NewDay key.Binding
	Up     key.Binding
	Down   key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Photo, k.Text, k.Delete, k.NewDay, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Photo, k.Text, k.Delete, k.NewDay},
		{k.Up, k.Down, k.Back, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Photo: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add from photo"),
		),
		Text: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "describe in text"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "delete entry"),
		),
		NewDay: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
