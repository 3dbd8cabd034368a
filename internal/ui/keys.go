package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the storefront.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Listing actions
	NextCategory key.Binding
	PrevCategory key.Binding
	ChangeCar    key.Binding
	ClearCar     key.Binding
	Refresh      key.Binding

	// Wizard
	Confirm key.Binding
	Back    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		NextCategory: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "Next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "Previous category"),
		),
		ChangeCar: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Change car"),
		),
		ClearCar: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear car"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh prices"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Choose"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Previous step"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ChangeCar, k.NextCategory, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.NextCategory, k.PrevCategory, k.Refresh},
		{k.ChangeCar, k.ClearCar},
		{k.Confirm, k.Back},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
