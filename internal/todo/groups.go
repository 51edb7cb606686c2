package todo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dori/grove/internal/model"
)

const maxGroupName = 30

func checkGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxGroupName {
		return "", &ValidationError{Errors: []string{fmt.Sprintf("Group name must be 1-%d characters", maxGroupName)}}
	}
	return name, nil
}

func (m *Manager) groupIndex(id string) int {
	for i := range m.groups {
		if m.groups[i].ID == id {
			return i
		}
	}
	return -1
}

// createGroup appends a group and persists the group list
func (m *Manager) createGroup(name string) (*model.Group, error) {
	name, err := checkGroupName(name)
	if err != nil {
		return nil, err
	}
	g := model.Group{
		ID:        m.newID(),
		Name:      name,
		Order:     len(m.groups),
		CreatedAt: m.now(),
	}
	m.groups = append(m.groups, g)
	m.log.Debug("created group", "id", g.ID, "name", g.Name)
	return &g, m.saveGroups()
}

// CreateGroup adds a named group
func (m *Manager) CreateGroup(name string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createGroup(name)
}

// Group returns the group with the given id
func (m *Manager) Group(id string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(id)
	if i == -1 {
		return nil, m.notFound("group", "group", id)
	}
	g := m.groups[i]
	return &g, nil
}

// Groups returns every group ordered by Order
func (m *Manager) Groups() []model.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := slices.Clone(m.groups)
	slices.SortStableFunc(out, func(a, b model.Group) int { return a.Order - b.Order })
	return out
}

// UpdateGroup renames a group
func (m *Manager) UpdateGroup(id, name string) (*model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(id)
	if i == -1 {
		return nil, m.notFound("update group", "group", id)
	}
	name, err := checkGroupName(name)
	if err != nil {
		return nil, err
	}
	m.groups[i].Name = name
	g := m.groups[i]
	return &g, m.saveGroups()
}

// DeleteGroup removes a group and every task in it. The last remaining group
// cannot be deleted. When the active group is removed the first remaining
// group becomes active.
func (m *Manager) DeleteGroup(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(id)
	if i == -1 {
		return m.notFound("delete group", "group", id)
	}
	if len(m.groups) <= 1 {
		return ErrLastGroup
	}

	removed := make(map[string]bool)
	for _, tid := range m.order {
		if m.tasks[tid].GroupID == id {
			removed[tid] = true
		}
	}
	for tid := range removed {
		delete(m.tasks, tid)
	}
	m.dropFromOrder(removed)

	// surviving tasks must not point at removed ones
	for _, t := range m.tasks {
		if t.ParentID != "" && removed[t.ParentID] {
			t.ParentID = ""
		}
		t.SubtaskIDs = slices.DeleteFunc(t.SubtaskIDs, func(c string) bool { return removed[c] })
	}

	m.groups = slices.Delete(m.groups, i, i+1)

	errs := []error{m.saveTasks(), m.saveGroups()}
	if m.activeGroup == id {
		m.activeGroup = m.groups[0].ID
		errs = append(errs, m.saveActive())
	}

	m.log.Debug("deleted group", "id", id, "tasks", len(removed))
	return errors.Join(errs...)
}

// SetActiveGroup selects a group, or every group with model.AllGroups
func (m *Manager) SetActiveGroup(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != model.AllGroups && m.groupIndex(id) == -1 {
		return m.notFound("set active group", "group", id)
	}
	m.activeGroup = id
	return m.saveActive()
}

// ActiveGroupID returns the active group id or model.AllGroups
func (m *Manager) ActiveGroupID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeGroup
}

// ActiveGroup returns the active group, or nil when every group is selected
func (m *Manager) ActiveGroup() *model.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(m.activeGroup)
	if i == -1 {
		return nil
	}
	g := m.groups[i]
	return &g
}

// TasksByGroup returns the tasks of a group, or all of them for model.AllGroups
func (m *Manager) TasksByGroup(id string) []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasksByGroup(id)
}

func (m *Manager) tasksByGroup(id string) []model.Task {
	all := m.snapshot()
	if id == model.AllGroups {
		return all
	}
	return slices.DeleteFunc(all, func(t model.Task) bool { return t.GroupID != id })
}
