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
	Top         key.Binding
	Bottom      key.Binding
	Quit        key.Binding
	Help        key.Binding
	SwitchView  key.Binding
	Capture     key.Binding
	Locate      key.Binding
	EditTitle   key.Binding
	Save        key.Binding
	ClearSaved  key.Binding
	ClearPhotos key.Binding
	Open        key.Binding
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
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("v", "left", "right"),
			key.WithHelp("v", "draft/places"),
		),
		Capture: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "take photo"),
		),
		Locate: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "locate"),
		),
		EditTitle: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "edit title"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save place"),
		),
		ClearSaved: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear saved data"),
		),
		ClearPhotos: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear photos"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show map link"),
		),
	}
}

// FormKeyMap defines keybindings for title insert mode.
type FormKeyMap struct {
	Save   key.Binding
	Done   key.Binding
	Cancel key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save place"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done"),
		),
	}
}
