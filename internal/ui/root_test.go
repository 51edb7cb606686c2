package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/grove/internal/app"
	"github.com/dori/grove/internal/config"
	"github.com/dori/grove/internal/storage"
	"github.com/dori/grove/internal/ui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(&config.Config{
		DataDir:          t.TempDir(),
		Backend:          config.BackendSQLite,
		QuotaBytes:       storage.DefaultQuota,
		LogLevel:         "error",
		DefaultGroupName: "Main",
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func update(m RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(RootModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestThemeTogglePersists(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(a)
	assert.Equal(t, "light", theme.Current.Theme.Name)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	assert.Equal(t, "dark", theme.Current.Theme.Name)
	assert.Equal(t, "dark", a.Store.LoadSettings().Theme)
	assert.Equal(t, "Theme: dark", m.statusMsg)

	theme.SetTheme(theme.Light)
}

func TestViewSwitchingAndHelp(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(a)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(m, runes("2"))
	assert.Equal(t, ViewStats, m.currentView)
	assert.Contains(t, m.View(), "Statistics")

	m, _ = update(m, runes("?"))
	assert.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "Grove Help")

	// keys are swallowed while help is open
	m, _ = update(m, runes("1"))
	assert.Equal(t, ViewStats, m.currentView)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.helpVisible)

	m, _ = update(m, runes("1"))
	assert.Equal(t, ViewList, m.currentView)
	assert.Contains(t, m.View(), "Main")
}

func TestQuitIsTextWhileTyping(t *testing.T) {
	a := newTestApp(t)
	m := NewRootModel(a)

	m, _ = update(m, runes("a"))
	_, cmd := update(m, runes("q"))
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}

	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
