package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/grove/internal/app"
	"github.com/dori/grove/internal/model"
	"github.com/dori/grove/internal/quickadd"
	"github.com/dori/grove/internal/todo"
	"github.com/dori/grove/internal/ui/theme"
)

// ListMode represents the current mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeAdd
	ListModeAddSubtask
	ListModeEdit
	ListModeConfirmDelete
	ListModeConfirmSubtasks
)

// Row is one visible line of the task tree
type Row struct {
	Task     model.Task
	Depth    int
	Progress model.Progress
}

// ListView shows the tasks of the active group as a collapsible tree
type ListView struct {
	app    *app.App
	width  int
	height int

	rows         []Row
	cursor       int
	scrollOffset int

	mode  ListMode
	input textinput.Model

	// task id -> expanded, persisted through the store
	expanded map[string]bool

	// target of the pending add-subtask, edit or confirmation
	pendingID string

	statusMsg string
	now       func() time.Time
}

// NewListView creates a new list view
func NewListView(a *app.App) ListView {
	ti := textinput.New()
	ti.Placeholder = "Task title @tag !priority due:tomorrow every:week"
	ti.CharLimit = 256

	return ListView{
		app:      a,
		input:    ti,
		expanded: a.Store.LoadCollapseState(),
		now:      a.Tasks.Now,
	}
}

// Init loads the tasks
func (v ListView) Init() tea.Cmd {
	return v.loadTasks
}

// SetSize sets the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	v.ensureCursorVisible()
	return v
}

// IsInputMode reports whether keys should go to the text input
func (v ListView) IsInputMode() bool {
	switch v.mode {
	case ListModeAdd, ListModeAddSubtask, ListModeEdit:
		return true
	}
	return false
}

// Local messages

type tasksLoadedMsg struct {
	tasks    []model.Task
	progress map[string]model.Progress
}

// taskChangedMsg reports the outcome of a mutation and triggers a reload
type taskChangedMsg struct {
	status  string
	focusID string
	err     error
}

// confirmSubtasksMsg asks before completing a parent with open subtasks
type confirmSubtasksMsg struct {
	id    string
	count int
}

func (v ListView) loadTasks() tea.Msg {
	m := v.app.Tasks
	tasks := m.TasksByGroup(m.ActiveGroupID())
	progress := make(map[string]model.Progress)
	for _, t := range tasks {
		if t.HasSubtasks() {
			progress[t.ID] = m.SubtaskProgress(t.ID)
		}
	}
	return tasksLoadedMsg{tasks: tasks, progress: progress}
}

// BuildRows flattens tasks into display order. Root tasks are filtered and
// sorted with the settings; subtasks follow their parent in stored order
// when the parent is expanded. A subtask whose parent is outside tasks is
// shown as a root.
func BuildRows(tasks []model.Task, progress map[string]model.Progress, s model.Settings, expanded map[string]bool) []Row {
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var roots []model.Task
	for _, t := range tasks {
		if _, ok := byID[t.ParentID]; t.ParentID == "" || !ok {
			roots = append(roots, t)
		}
	}
	roots = todo.Sort(todo.Filter(roots, s.Filters), s.SortBy, s.SortOrder)

	rows := make([]Row, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	var walk func(t model.Task, depth int)
	walk = func(t model.Task, depth int) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		rows = append(rows, Row{Task: t, Depth: depth, Progress: progress[t.ID]})
		if !expanded[t.ID] {
			return
		}
		for _, id := range t.SubtaskIDs {
			c, ok := byID[id]
			if !ok || (c.Completed && !s.Filters.ShowsCompleted()) {
				continue
			}
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return rows
}

// Update handles messages
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		v.rows = BuildRows(msg.tasks, msg.progress, v.app.Settings, v.expanded)
		if v.cursor >= len(v.rows) {
			v.cursor = max(len(v.rows)-1, 0)
		}
		v.ensureCursorVisible()
		return v, nil

	case taskChangedMsg:
		v.statusMsg = msg.status
		if msg.err != nil {
			v.statusMsg = errorText(msg.err)
		}
		if msg.focusID != "" {
			return v, func() tea.Msg {
				loaded := v.loadTasks().(tasksLoadedMsg)
				return focusedLoadMsg{loaded: loaded, focusID: msg.focusID}
			}
		}
		return v, v.loadTasks

	case focusedLoadMsg:
		v.rows = BuildRows(msg.loaded.tasks, msg.loaded.progress, v.app.Settings, v.expanded)
		v.cursor = min(v.cursor, max(len(v.rows)-1, 0))
		for i, r := range v.rows {
			if r.Task.ID == msg.focusID {
				v.cursor = i
				break
			}
		}
		v.ensureCursorVisible()
		return v, nil

	case confirmSubtasksMsg:
		v.mode = ListModeConfirmSubtasks
		v.pendingID = msg.id
		v.statusMsg = fmt.Sprintf("%d subtask(s) still open. Complete them all? (y/n)", msg.count)
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ListModeAdd, ListModeAddSubtask, ListModeEdit:
			return v.handleInputMode(msg)
		case ListModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		case ListModeConfirmSubtasks:
			return v.handleSubtasksConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	return v, nil
}

type focusedLoadMsg struct {
	loaded  tasksLoadedMsg
	focusID string
}

func (v ListView) current() (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return model.Task{}, false
	}
	return v.rows[v.cursor].Task, true
}

func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	task, ok := v.current()

	switch msg.String() {
	// Navigation
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
			v.ensureCursorVisible()
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureCursorVisible()
		}
	case "g", "home":
		v.cursor = 0
		v.ensureCursorVisible()
	case "G", "end":
		v.cursor = max(len(v.rows)-1, 0)
		v.ensureCursorVisible()

	// Task actions
	case "a":
		v.mode = ListModeAdd
		v.input.SetValue("")
		v.input.Placeholder = "Task title @tag !priority due:tomorrow every:week"
		return v, v.input.Focus()
	case "A":
		if !ok {
			return v, nil
		}
		v.mode = ListModeAddSubtask
		v.pendingID = task.ID
		v.input.SetValue("")
		v.input.Placeholder = "Subtask of " + task.Title
		return v, v.input.Focus()
	case "enter", "e":
		if !ok {
			return v, nil
		}
		v.mode = ListModeEdit
		v.pendingID = task.ID
		v.input.SetValue(task.Title)
		v.input.CursorEnd()
		return v, v.input.Focus()
	case "d":
		if !ok {
			return v, nil
		}
		v.mode = ListModeConfirmDelete
		v.pendingID = task.ID
	case "tab", "x":
		if !ok {
			return v, nil
		}
		return v, v.toggle(task.ID)
	case " ", "l", "h":
		if ok && task.HasSubtasks() {
			v.expanded[task.ID] = !v.expanded[task.ID]
			if !v.expanded[task.ID] {
				delete(v.expanded, task.ID)
			}
			return v, v.saveCollapse()
		}
	case "p":
		if ok {
			return v, v.cyclePriority(task)
		}
	case "<":
		if ok && !task.IsRoot() {
			return v, v.promote(task.ID)
		}

	// List settings
	case "]":
		return v, v.cycleGroup(1)
	case "[":
		return v, v.cycleGroup(-1)
	case "0":
		return v, v.setGroup(model.AllGroups)
	case "s":
		return v, v.updateSettings(func(s *model.Settings) string {
			s.SortBy = nextSort(s.SortBy)
			return "Sort: " + string(s.SortBy)
		})
	case "S":
		return v, v.updateSettings(func(s *model.Settings) string {
			if s.SortOrder == model.SortAsc {
				s.SortOrder = model.SortDesc
			} else {
				s.SortOrder = model.SortAsc
			}
			return "Order: " + string(s.SortOrder)
		})
	case "c":
		return v, v.updateSettings(func(s *model.Settings) string {
			s.Filters.SetShowCompleted(!s.Filters.ShowsCompleted())
			if s.Filters.ShowsCompleted() {
				return "Showing completed tasks"
			}
			return "Hiding completed tasks"
		})
	}

	return v, nil
}

func (v ListView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		v.input.SetValue("")
		return v, nil

	case "enter":
		text := strings.TrimSpace(v.input.Value())
		mode, id := v.mode, v.pendingID
		v.mode = ListModeNormal
		v.input.Blur()
		v.input.SetValue("")
		if text == "" {
			return v, nil
		}

		switch mode {
		case ListModeAdd:
			return v, v.createTask(text)
		case ListModeAddSubtask:
			v.expanded[id] = true
			return v, tea.Batch(v.createSubtask(id, text), v.saveCollapse())
		case ListModeEdit:
			return v, v.renameTask(id, text)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ListModeNormal
		if v.expanded[v.pendingID] {
			delete(v.expanded, v.pendingID)
			return v, tea.Batch(v.deleteTask(v.pendingID), v.saveCollapse())
		}
		return v, v.deleteTask(v.pendingID)
	case "n", "N", "esc":
		v.mode = ListModeNormal
		v.statusMsg = ""
	}
	return v, nil
}

func (v ListView) handleSubtasksConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ListModeNormal
		return v, v.complete(v.pendingID, true)
	case "n", "N":
		v.mode = ListModeNormal
		return v, v.complete(v.pendingID, false)
	case "esc":
		v.mode = ListModeNormal
		v.statusMsg = ""
	}
	return v, nil
}

// errorText renders engine errors for the status line. A persistence
// failure still applied the change in memory.
func errorText(err error) string {
	if errors.Is(err, todo.ErrPersist) {
		return "Changes not saved: storage unavailable"
	}
	var ve *todo.ValidationError
	if errors.As(err, &ve) {
		return strings.Join(ve.Errors, "; ")
	}
	return "Error: " + err.Error()
}

func nextSort(s model.SortBy) model.SortBy {
	order := []model.SortBy{model.SortCreatedAt, model.SortDueDate, model.SortPriority, model.SortTitle}
	for i, o := range order {
		if o == s {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

// Commands

func (v ListView) createTask(text string) tea.Cmd {
	return func() tea.Msg {
		in := quickadd.Parse(text, v.now())
		t, err := v.app.Tasks.Create(in)
		if t == nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: "Added " + t.Title, focusID: t.ID, err: err}
	}
}

func (v ListView) createSubtask(parentID, text string) tea.Cmd {
	return func() tea.Msg {
		in := quickadd.Parse(text, v.now())
		t, err := v.app.Tasks.AddSubtask(parentID, in)
		if t == nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: "Added subtask " + t.Title, focusID: t.ID, err: err}
	}
}

func (v ListView) renameTask(id, title string) tea.Cmd {
	return func() tea.Msg {
		_, err := v.app.Tasks.Update(id, todo.TaskPatch{Title: &title})
		return taskChangedMsg{focusID: id, err: err}
	}
}

func (v ListView) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		n, err := v.app.Tasks.Delete(id)
		return taskChangedMsg{status: fmt.Sprintf("Deleted %d task(s)", n), err: err}
	}
}

// toggle reopens a completed task, or completes an open one after asking
// about its open subtasks
func (v ListView) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := v.app.Tasks.Get(id)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		if !t.Completed {
			if n := v.app.Tasks.IncompleteSubtaskCount(id); n > 0 {
				return confirmSubtasksMsg{id: id, count: n}
			}
		}
		return v.complete(id, false)()
	}
}

// complete toggles the task and hands a completed recurring task to the
// recurrence engine
func (v ListView) complete(id string, withSubtasks bool) tea.Cmd {
	return func() tea.Msg {
		m := v.app.Tasks
		var errs []error
		if withSubtasks {
			if err := m.CompleteAllSubtasks(id); err != nil {
				if !errors.Is(err, todo.ErrPersist) {
					return taskChangedMsg{err: err}
				}
				errs = append(errs, err)
			}
		}

		t, err := m.ToggleComplete(id)
		if t == nil {
			return taskChangedMsg{err: err}
		}
		errs = append(errs, err)

		status := "Reopened " + t.Title
		if t.Completed {
			status = "Completed " + t.Title
			if t.IsRecurring() {
				next, err := m.HandleTaskCompletion(id)
				errs = append(errs, err)
				if next != nil {
					status += ", next due " + formatDate(next.DueDate, v.now())
				}
			}
		}
		return taskChangedMsg{status: status, focusID: id, err: errors.Join(errs...)}
	}
}

func (v ListView) cyclePriority(t model.Task) tea.Cmd {
	return func() tea.Msg {
		p := nextPriority(t.Priority)
		_, err := v.app.Tasks.Update(t.ID, todo.TaskPatch{Priority: &p})
		return taskChangedMsg{status: "Priority: " + string(p), focusID: t.ID, err: err}
	}
}

func (v ListView) promote(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := v.app.Tasks.MoveSubtask(id, "")
		return taskChangedMsg{status: "Moved to top level", focusID: id, err: err}
	}
}

func (v ListView) saveCollapse() tea.Cmd {
	state := make(map[string]bool, len(v.expanded))
	for id, open := range v.expanded {
		state[id] = open
	}
	return func() tea.Msg {
		if !v.app.Store.SaveCollapseState(state) {
			return taskChangedMsg{err: todo.ErrPersist}
		}
		return taskChangedMsg{}
	}
}

// cycleGroup steps through the groups followed by the all-groups entry
func (v ListView) cycleGroup(step int) tea.Cmd {
	ids := []string{}
	for _, g := range v.app.Tasks.Groups() {
		ids = append(ids, g.ID)
	}
	ids = append(ids, model.AllGroups)

	cur := 0
	active := v.app.Tasks.ActiveGroupID()
	for i, id := range ids {
		if id == active {
			cur = i
			break
		}
	}
	return v.setGroup(ids[(cur+step+len(ids))%len(ids)])
}

func (v ListView) setGroup(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.app.Tasks.SetActiveGroup(id)
		return taskChangedMsg{status: "Group: " + GroupLabel(v.app.Tasks), err: err}
	}
}

// updateSettings saves right away since App.Settings is read while
// rendering
func (v ListView) updateSettings(edit func(*model.Settings) string) tea.Cmd {
	s := v.app.Settings
	s.Filters.SelectedTags = append([]string(nil), s.Filters.SelectedTags...)
	s.Filters.SelectedPriorities = append([]model.Priority(nil), s.Filters.SelectedPriorities...)
	msg := taskChangedMsg{status: edit(&s)}
	if !v.app.SaveSettings(s) {
		msg.err = todo.ErrPersist
	}
	return func() tea.Msg { return msg }
}

// GroupLabel names the active group, or "All" for every group
func GroupLabel(m *todo.Manager) string {
	if g := m.ActiveGroup(); g != nil {
		return g.Name
	}
	return "All"
}

// Rendering

func (v ListView) visibleTaskCount() int {
	// input box, status line and scroll markers
	h := v.height - 5
	if h < 1 {
		return 1
	}
	return h
}

func (v *ListView) ensureCursorVisible() {
	visible := v.visibleTaskCount()
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// View renders the list view
func (v ListView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	if v.IsInputMode() {
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n\n")
	}

	if v.mode == ListModeConfirmDelete {
		confirmStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
		msg := "Delete task? (y/n)"
		if n := v.app.Tasks.SubtaskProgress(v.pendingID).Total; n > 0 {
			msg = fmt.Sprintf("Delete task and %d subtask(s)? (y/n)", n)
		}
		b.WriteString(confirmStyle.Render(msg))
		b.WriteString("\n\n")
	}

	if v.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
		if v.mode == ListModeConfirmSubtasks {
			statusStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
		}
		b.WriteString(statusStyle.Render(v.statusMsg))
		b.WriteString("\n\n")
	}

	if len(v.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Padding(1, 0)
		b.WriteString(emptyStyle.Render("No tasks. Press 'a' to add one."))
		return b.String()
	}

	visible := v.visibleTaskCount()
	endIdx := min(v.scrollOffset+visible, len(v.rows))
	scrollStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	if v.scrollOffset > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}
	now := v.now()
	for i := v.scrollOffset; i < endIdx; i++ {
		b.WriteString(v.renderRow(v.rows[i], i == v.cursor, now))
		b.WriteString("\n")
	}
	if remaining := len(v.rows) - endIdx; remaining > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}

func (v ListView) renderRow(r Row, isCursor bool, now time.Time) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	task := r.Task

	indent := strings.Repeat("  ", r.Depth)

	expand := " "
	if task.HasSubtasks() {
		if v.expanded[task.ID] {
			expand = "▼"
		} else {
			expand = "▶"
		}
	} else if r.Depth > 0 {
		expand = "└"
	}

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	var priorityChar string
	switch task.Priority {
	case model.PriorityHigh:
		priorityChar = "!"
	case model.PriorityLow:
		priorityChar = "."
	default:
		priorityChar = "-"
	}
	priority := lipgloss.NewStyle().Foreground(t.PriorityColor(task.Priority)).Render(priorityChar)

	status := model.DueDateStatus(task.DueDate, now)
	titleStyle := styles.TaskNormal
	if task.Completed {
		titleStyle = styles.TaskDone
	} else if status == model.DueOverdue {
		titleStyle = styles.TaskOverdue
	}

	var metadata []string
	if r.Progress.Total > 0 {
		progStyle := lipgloss.NewStyle().Foreground(t.Secondary)
		metadata = append(metadata, progStyle.Render(fmt.Sprintf("%d/%d", r.Progress.Completed, r.Progress.Total)))
	}
	for _, tag := range task.Tags {
		metadata = append(metadata, styles.Tag.Render("@"+tag))
	}
	if task.DueDate != nil {
		dueStyle := lipgloss.NewStyle().Foreground(t.Subtle)
		if !task.Completed {
			switch status {
			case model.DueOverdue:
				dueStyle = lipgloss.NewStyle().Foreground(t.Error)
			case model.DueToday:
				dueStyle = lipgloss.NewStyle().Foreground(t.Warning)
			}
		}
		metadata = append(metadata, dueStyle.Render(formatDate(task.DueDate, now)))
	}
	if desc := task.Recurrence.Describe(); desc != "" {
		metadata = append(metadata, lipgloss.NewStyle().Foreground(t.Info).Render("↻ "+desc))
	}

	line := fmt.Sprintf("%s%s %s %s %s", indent, expand, checkbox, priority, titleStyle.Render(task.Title))
	if len(metadata) > 0 {
		line += " " + strings.Join(metadata, " ")
	}

	if isCursor {
		line = styles.TaskFocused.Render(line)
	}
	return line
}

// formatDate renders a due date relative to now
func formatDate(d *time.Time, now time.Time) string {
	if d == nil {
		return ""
	}

	switch model.DueDateStatus(d, now) {
	case model.DueToday:
		return "today"
	case model.DueTomorrow:
		return "tomorrow"
	case model.DueOverdue:
		days := daysBetween(*d, now)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	}

	if d.Sub(now) < 7*24*time.Hour {
		return d.Format("Mon")
	}
	if d.Year() == now.Year() {
		return d.Format("Jan 2")
	}
	return d.Format("Jan 2, 2006")
}

// daysBetween counts calendar days from a to b in b's location
func daysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	from := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
