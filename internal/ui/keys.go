package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application.
// Global keys are matched by the root model; the rest are handled by the
// views and listed here for the help overlay.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Task actions
	Add        key.Binding
	AddSubtask key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Toggle     key.Binding
	Expand     key.Binding
	Priority   key.Binding
	Promote    key.Binding

	// List settings
	NextGroup     key.Binding
	PrevGroup     key.Binding
	AllGroups     key.Binding
	Sort          key.Binding
	SortOrder     key.Binding
	ShowCompleted key.Binding

	// Views
	ListView  key.Binding
	StatsView key.Binding

	// General
	Help        key.Binding
	ThemeToggle key.Binding
	Quit        key.Binding
	Cancel      key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		AddSubtask: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add subtask"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit title"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", "x"),
			key.WithHelp("tab", "toggle done"),
		),
		Expand: key.NewBinding(
			key.WithKeys(" ", "l", "h"),
			key.WithHelp("space", "expand/collapse"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Promote: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "promote to root"),
		),

		NextGroup: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next group"),
		),
		PrevGroup: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev group"),
		),
		AllGroups: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "all groups"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort field"),
		),
		SortOrder: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort order"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "show/hide done"),
		),

		ListView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "list"),
		),
		StatsView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "stats"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeToggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Add, k.AddSubtask, k.Edit, k.Delete},
		{k.Toggle, k.Expand, k.Priority, k.Promote},
		{k.NextGroup, k.PrevGroup, k.AllGroups},
		{k.Sort, k.SortOrder, k.ShowCompleted},
		{k.ListView, k.StatsView, k.ThemeToggle},
		{k.Help, k.Cancel, k.Quit},
	}
}
