package theme

import "github.com/charmbracelet/lipgloss"

// Dark is built on the Nord polar night and frost palette
var Dark = Theme{
	Name: "dark",

	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),
	TagBg:      lipgloss.Color("#3B4252"),

	Primary:   lipgloss.Color("#88C0D0"),
	Secondary: lipgloss.Color("#81A1C1"),
	Info:      lipgloss.Color("#5E81AC"),

	Success: lipgloss.Color("#A3BE8C"),
	Warning: lipgloss.Color("#EBCB8B"),
	Error:   lipgloss.Color("#BF616A"),

	PriorityLow:    lipgloss.Color("#A3BE8C"),
	PriorityMedium: lipgloss.Color("#EBCB8B"),
	PriorityHigh:   lipgloss.Color("#BF616A"),
}
