package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/grove/internal/app"
	"github.com/dori/grove/internal/model"
	"github.com/dori/grove/internal/ui/theme"
)

// StatsView shows task counts for the active group or for every group
type StatsView struct {
	app    *app.App
	width  int
	height int

	// allGroups ignores the active group
	allGroups bool

	stats model.Statistics
	tags  []tagCount
}

type tagCount struct {
	name  string
	count int
}

type statsLoadedMsg struct {
	stats model.Statistics
	tags  []tagCount
}

// NewStatsView creates a new stats view
func NewStatsView(a *app.App) StatsView {
	return StatsView{app: a}
}

// Init initializes the stats view
func (v StatsView) Init() tea.Cmd {
	return v.loadStats()
}

// SetSize sets the view dimensions
func (v StatsView) SetSize(width, height int) StatsView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode is always false; the stats view has no text input
func (v StatsView) IsInputMode() bool {
	return false
}

func (v StatsView) loadStats() tea.Cmd {
	all := v.allGroups
	return func() tea.Msg {
		m := v.app.Tasks
		group := ""
		if all {
			group = model.AllGroups
		}

		var tags []tagCount
		for _, tag := range m.UsedTags() {
			tags = append(tags, tagCount{name: tag, count: m.TagUsageCount(tag)})
		}
		return statsLoadedMsg{stats: m.Statistics(group), tags: tags}
	}
}

// Update handles messages
func (v StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		v.stats = msg.stats
		v.tags = msg.tags
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			v.allGroups = !v.allGroups
			return v, v.loadStats()
		case "r":
			return v, v.loadStats()
		}
	}

	return v, nil
}

// View renders the stats view
func (v StatsView) View() string {
	t := theme.Current.Theme
	s := v.stats

	scope := GroupLabel(v.app.Tasks)
	if v.allGroups {
		scope = "All groups"
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render("Statistics ─ "+scope), "")

	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(18)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + labelStyle.Render(label))
	}

	pct := 0
	if s.Total > 0 {
		pct = s.Completed * 100 / s.Total
	}
	sections = append(sections,
		lipgloss.JoinHorizontal(lipgloss.Top,
			card(fmt.Sprintf("%d", s.Total), "Tasks"),
			card(fmt.Sprintf("%d", s.Completed), "Completed"),
			card(fmt.Sprintf("%d", s.Incomplete), "Open"),
			card(fmt.Sprintf("%d%%", pct), "Done"),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			card(fmt.Sprintf("%d/%d", s.RootCompleted, s.RootTotal), "Top level"),
			card(fmt.Sprintf("%d", s.Recurring), "Recurring"),
			card(fmt.Sprintf("%d", s.WithSubtasks), "With subtasks"),
		),
		"",
	)

	sections = append(sections, v.renderBuckets(), "")
	if len(v.tags) > 0 {
		sections = append(sections, v.renderTags(), "")
	}

	hints := lipgloss.NewStyle().Foreground(t.Subtle).Render("a: active/all groups • r: refresh")
	sections = append(sections, hints)

	return strings.Join(sections, "\n")
}

// renderBuckets draws one bar per due and priority bucket of open tasks
func (v StatsView) renderBuckets() string {
	t := theme.Current.Theme
	s := v.stats

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	labelStyle := lipgloss.NewStyle().Width(10).Foreground(t.Subtle)

	type bucket struct {
		label string
		count int
		color lipgloss.Color
	}
	buckets := []bucket{
		{"Overdue", s.Overdue, t.Error},
		{"Today", s.Today, t.Warning},
		{"Tomorrow", s.Tomorrow, t.Info},
		{"High", s.PriorityHigh, t.PriorityHigh},
		{"Medium", s.PriorityMedium, t.PriorityMedium},
		{"Low", s.PriorityLow, t.PriorityLow},
	}

	barMax := 30
	if v.width > 0 && v.width-20 < barMax {
		barMax = max(v.width-20, 5)
	}
	scale := max(s.Incomplete, 1)

	lines := []string{headerStyle.Render("Open Tasks")}
	for _, b := range buckets {
		n := b.count * barMax / scale
		if b.count > 0 && n == 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(b.color).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s %s %d", labelStyle.Render(b.label), bar, b.count))
	}
	return strings.Join(lines, "\n")
}

func (v StatsView) renderTags() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	parts := make([]string, 0, len(v.tags))
	for _, tc := range v.tags {
		parts = append(parts, styles.Tag.Render(fmt.Sprintf("@%s %d", tc.name, tc.count)))
	}
	return headerStyle.Render("Tags") + "\n" + strings.Join(parts, " ")
}
