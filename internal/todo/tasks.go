package todo

import (
	"strings"
	"time"

	"github.com/dori/grove/internal/model"
)

// TaskInput carries the fields a caller may supply when creating a task.
// Zero values select the defaults.
type TaskInput struct {
	Title       string
	Description string
	Tags        []string
	Priority    model.Priority
	DueDate     *time.Time
	GroupID     string
	Recurrence  *model.Recurrence
}

// TaskPatch is a partial update. Nil fields are left unchanged; a nil Tags
// slice keeps the tags while an empty one clears them. Identity and creation
// time are not part of the patch and can never change.
type TaskPatch struct {
	Title           *string
	Description     *string
	Completed       *bool
	GroupID         *string
	Tags            []string
	Priority        *model.Priority
	DueDate         *time.Time
	ClearDueDate    bool
	Recurrence      *model.Recurrence
	ClearRecurrence bool
}

// Create adds a new root task and persists it
func (m *Manager) Create(in TaskInput) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.create(in, "")
	if err != nil {
		return nil, err
	}
	return copyTask(t), m.saveTasks()
}

// create validates in and stores the task without persisting
func (m *Manager) create(in TaskInput, parentID string) (*model.Task, error) {
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if errs := checkTask(in.Title, in.Description, in.Priority); len(errs) > 0 {
		m.log.Debug("create rejected", "errors", errs)
		return nil, &ValidationError{Errors: errs}
	}
	return m.insert(in, parentID)
}

// insert stores a task built from in without validating its fields. Callers
// copying an already stored task use it directly.
func (m *Manager) insert(in TaskInput, parentID string) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	priority := in.Priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}

	groupID := in.GroupID
	if groupID == "" {
		groupID = m.defaultGroupID()
	}
	if m.groupIndex(groupID) == -1 {
		return nil, m.notFound("create", "group", groupID)
	}

	now := m.now()
	t := &model.Task{
		ID:          m.newID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Completed:   false,
		GroupID:     groupID,
		Tags:        cleanTags(in.Tags),
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		ParentID:    parentID,
		SubtaskIDs:  []string{},
	}
	if in.DueDate != nil {
		d := *in.DueDate
		t.DueDate = &d
	}
	if in.Recurrence != nil {
		r := in.Recurrence.Clone()
		t.Recurrence = &r
	}

	m.tasks[t.ID] = t
	m.order = append(m.order, t.ID)
	return t, nil
}

// defaultGroupID resolves the group new tasks land in. The "all" sentinel
// falls back to the first group.
func (m *Manager) defaultGroupID() string {
	if m.activeGroup != "" && m.activeGroup != model.AllGroups {
		return m.activeGroup
	}
	if len(m.groups) > 0 {
		return m.groups[0].ID
	}
	return ""
}

// cleanTags trims, drops blanks and de-duplicates while keeping order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Get returns a copy of the task
func (m *Manager) Get(id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, m.notFound("get", "task", id)
	}
	return copyTask(t), nil
}

// All returns copies of every task in insertion order
func (m *Manager) All() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Update merges patch into the task, refreshes UpdatedAt and persists
func (m *Manager) Update(id string, patch TaskPatch) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.update(id, patch)
	if err != nil {
		return nil, err
	}
	return copyTask(t), m.saveTasks()
}

func (m *Manager) update(id string, patch TaskPatch) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, m.notFound("update", "task", id)
	}

	next := t.Clone()
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}
	if patch.GroupID != nil {
		if m.groupIndex(*patch.GroupID) == -1 {
			return nil, m.notFound("update", "group", *patch.GroupID)
		}
		next.GroupID = *patch.GroupID
	}
	if patch.Tags != nil {
		next.Tags = cleanTags(patch.Tags)
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	switch {
	case patch.ClearDueDate:
		next.DueDate = nil
	case patch.DueDate != nil:
		d := *patch.DueDate
		next.DueDate = &d
	}
	switch {
	case patch.ClearRecurrence:
		next.Recurrence = nil
	case patch.Recurrence != nil:
		r := patch.Recurrence.Clone()
		next.Recurrence = &r
	}

	// only the patched fields are checked so a stored task that predates a
	// rule can still be completed or retagged
	if errs := checkPatch(patch, next); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	next.UpdatedAt = m.now()
	*t = next
	return t, nil
}

// Delete removes the task and all of its descendants, detaching it from its
// parent first. It returns how many tasks were removed.
func (m *Manager) Delete(id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return 0, m.notFound("delete", "task", id)
	}

	if t.ParentID != "" {
		if parent, ok := m.tasks[t.ParentID]; ok {
			parent.SubtaskIDs = removeID(parent.SubtaskIDs, id)
		}
	}

	removed := make(map[string]bool)
	m.deleteRecursive(id, removed)
	m.dropFromOrder(removed)

	m.log.Debug("deleted task", "id", id, "removed", len(removed))
	return len(removed), m.saveTasks()
}

// deleteRecursive removes children before their parent
func (m *Manager) deleteRecursive(id string, removed map[string]bool) {
	if removed[id] {
		return
	}
	t, ok := m.tasks[id]
	if !ok {
		return
	}
	removed[id] = true
	for _, childID := range append([]string(nil), t.SubtaskIDs...) {
		m.deleteRecursive(childID, removed)
	}
	delete(m.tasks, id)
}

func (m *Manager) dropFromOrder(removed map[string]bool) {
	kept := m.order[:0]
	for _, id := range m.order {
		if !removed[id] {
			kept = append(kept, id)
		}
	}
	m.order = kept
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ToggleComplete flips the completed flag. Recurrence handling is a separate
// call to HandleTaskCompletion.
func (m *Manager) ToggleComplete(id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, m.notFound("toggle", "task", id)
	}
	done := !t.Completed
	t, err := m.update(id, TaskPatch{Completed: &done})
	if err != nil {
		return nil, err
	}
	return copyTask(t), m.saveTasks()
}
