package ui

import "github.com/charmbracelet/bubbles/key"

// GState represents the state for "gg" navigation.
type GState int

const (
	GStateIdle GState = iota
	GStateFirstG
)

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	ShowAll     key.Binding
	FraudOnly   key.Binding
	LegitOnly   key.Binding
	CycleFilter key.Binding
	SmallerPage key.Binding
	LargerPage  key.Binding
	NextColumn  key.Binding
	PrevColumn  key.Binding
	HideColumn  key.Binding
	ShowColumns key.Binding
	Open        key.Binding
	Sample      key.Binding
	Predict     key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/←", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/→", "next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "last page"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "show all"),
		),
		FraudOnly: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "fraud only"),
		),
		LegitOnly: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "not fraud only"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle filter"),
		),
		SmallerPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "fewer rows"),
		),
		LargerPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "more rows"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next col"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev col"),
		),
		HideColumn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hide col"),
		),
		ShowColumns: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "show cols"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		Sample: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "sample data"),
		),
		Predict: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "predict"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo load"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo load"),
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

// FormKeyMap defines keybindings for the load form.
type FormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
