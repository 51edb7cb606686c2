package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/grove/internal/app"
	"github.com/dori/grove/internal/ui/theme"
	"github.com/dori/grove/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	listView    views.ListView
	statsView   views.StatsView
	helpVisible bool

	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model and applies the stored theme
func NewRootModel(application *app.App) RootModel {
	if t, ok := theme.ByName(application.Settings.Theme); ok {
		theme.SetTheme(t)
	}

	h := help.New()
	h.ShowAll = true

	m := RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewList,
		listView:    views.NewListView(application),
		statsView:   views.NewStatsView(application),
	}
	if n := len(application.Generated); n > 0 {
		m.statusMsg = fmt.Sprintf("%d recurring task(s) generated", n)
	}
	return m
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.listView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// header (1 line) and footer (up to 3 lines)
		contentHeight := m.height - 4
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.statsView = m.statsView.SetSize(m.width, contentHeight)

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.currentView == ViewList && m.listView.IsInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// 'q' is a character while typing
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeToggle):
			return m, m.toggleTheme()
		}

		if isInputMode {
			break
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
				m.helpVisible = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = true
			return m, nil
		case key.Matches(msg, m.keys.ListView):
			m.currentView = ViewList
			return m, m.listView.Init()
		case key.Matches(msg, m.keys.StatsView):
			m.currentView = ViewStats
			return m, m.statsView.Init()
		}

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		if !msg.Saved {
			m.errorMsg = "Theme not saved: storage unavailable"
		}
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		newListView, cmd := m.listView.Update(msg)
		m.listView = newListView.(views.ListView)
		cmds = append(cmds, cmd)
	case ViewStats:
		newStatsView, cmd := m.statsView.Update(msg)
		m.statsView = newStatsView.(views.StatsView)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// toggleTheme switches between light and dark and stores the choice
func (m *RootModel) toggleTheme() tea.Cmd {
	name := theme.Toggle(theme.Current.Theme.Name)
	t, _ := theme.ByName(name)
	theme.SetTheme(t)

	s := m.app.Settings
	s.Theme = name
	saved := m.app.SaveSettings(s)
	return func() tea.Msg {
		return ThemeChangedMsg{ThemeName: name, Saved: saved}
	}
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewStats:
			content = m.statsView.View()
		default:
			content = m.listView.View()
		}
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader shows the app name, view, active group and sort
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("grove")

	subtle := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	group := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true).Padding(0, 1).
		Render(views.GroupLabel(m.app.Tasks))
	viewIndicator := subtle.Render(fmt.Sprintf("[%s]", m.currentView))

	s := m.app.Settings
	sortInfo := fmt.Sprintf("sort: %s %s", s.SortBy, s.SortOrder)
	if !s.Filters.ShowsCompleted() {
		sortInfo += " • hiding done"
	}
	rightSide := subtle.Render(sortInfo + " • theme: " + t.Name)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, group, viewIndicator)
	gap := max(m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 0)

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the status line and context-aware key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpDesc.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	switch {
	case m.helpVisible:
		lines = append(lines, key("?/esc", "close help"))
	case m.currentView == ViewList && m.listView.IsInputMode():
		lines = append(lines, key("enter", "confirm")+sep+key("esc", "cancel"))
	case m.currentView == ViewList:
		lines = append(lines,
			key("a", "add")+sep+key("A", "subtask")+sep+key("enter", "edit")+sep+
				key("tab", "done")+sep+key("d", "del")+sep+key("space", "expand")+sep+key("p", "priority"),
			key("[/]", "group")+sep+key("s/S", "sort")+sep+key("c", "done filter")+sep+
				key("2", "stats")+sep+key("C-t", "theme")+sep+key("?", "help"),
		)
	case m.currentView == ViewStats:
		lines = append(lines,
			key("a", "active/all")+sep+key("r", "refresh")+sep+key("1", "list")+sep+
				key("C-t", "theme")+sep+key("?", "help"),
		)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay from the key map
func (m RootModel) renderHelp() string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("Grove Help"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("Quick add: title @tag !high due:fri every:week"))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("due: today, tomorrow, mon..sun, +3d, +2w, 2024-01-15"))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("every: day, week, month, weekdays, 3d, mon,thu"))
	return b.String()
}
