package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Navigation
	Fleet    key.Binding
	Rentals  key.Binding
	Income   key.Binding
	Settings key.Binding

	// Actions
	Select     key.Binding
	New        key.Binding
	Delete     key.Binding
	StartRent  key.Binding
	EndRent    key.Binding
	Export     key.Binding
	OpenToggle key.Binding
	AllYears   key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "dashboard")),
	Fleet:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fleet")),
	Rentals:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rentals")),
	Income:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "income")),
	Settings:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	StartRent:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start rent")),
	EndRent:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "end rent")),
	Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	OpenToggle: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "include open")),
	AllYears:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all years")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
