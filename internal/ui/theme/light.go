package theme

import "github.com/charmbracelet/lipgloss"

// Light uses the Nord snow storm shades with darkened accents
var Light = Theme{
	Name: "light",

	Background: lipgloss.Color("#ECEFF4"),
	Foreground: lipgloss.Color("#2E3440"),
	Subtle:     lipgloss.Color("#7B88A1"),
	Highlight:  lipgloss.Color("#D8DEE9"),
	Border:     lipgloss.Color("#AEB7C7"),
	TagBg:      lipgloss.Color("#E5E9F0"),

	Primary:   lipgloss.Color("#5E81AC"),
	Secondary: lipgloss.Color("#4C6A92"),
	Info:      lipgloss.Color("#3B6E8F"),

	Success: lipgloss.Color("#5B8A3C"),
	Warning: lipgloss.Color("#B7862B"),
	Error:   lipgloss.Color("#A3404B"),

	PriorityLow:    lipgloss.Color("#5B8A3C"),
	PriorityMedium: lipgloss.Color("#B7862B"),
	PriorityHigh:   lipgloss.Color("#A3404B"),
}
