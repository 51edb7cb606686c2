package ui

// View represents the current active view
type View int

const (
	ViewList View = iota
	ViewStats
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewList:
		return "List"
	case ViewStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
	Saved     bool
}
