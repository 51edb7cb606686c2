package todo

import (
	"fmt"
	"time"

	"github.com/dori/grove/internal/model"
)

// Subtasks returns the direct children of a task, skipping dangling ids
func (m *Manager) Subtasks(parentID string) []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.tasks[parentID]
	if !ok {
		return []model.Task{}
	}
	out := make([]model.Task, 0, len(parent.SubtaskIDs))
	for _, id := range parent.SubtaskIDs {
		if t, ok := m.tasks[id]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// HasCircularReference reports whether making childID a child of parentID
// would create a cycle, i.e. childID is parentID or one of its ancestors.
func (m *Manager) HasCircularReference(parentID, childID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasCircularReference(parentID, childID)
}

func (m *Manager) hasCircularReference(parentID, childID string) bool {
	// a corrupt chain cannot be longer than the store
	id := parentID
	for steps := len(m.tasks) + 1; id != "" && steps > 0; steps-- {
		if id == childID {
			return true
		}
		t, ok := m.tasks[id]
		if !ok {
			return false
		}
		id = t.ParentID
	}
	return id != ""
}

// AddSubtask creates a task under parentID in the parent's group
func (m *Manager) AddSubtask(parentID string, in TaskInput) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.tasks[parentID]
	if !ok {
		return nil, m.notFound("add subtask", "parent", parentID)
	}

	in.GroupID = parent.GroupID
	child, err := m.create(in, parentID)
	if err != nil {
		return nil, err
	}
	parent.SubtaskIDs = append(parent.SubtaskIDs, child.ID)
	parent.UpdatedAt = m.now()

	return copyTask(child), m.saveTasks()
}

// MoveSubtask re-parents childID under newParentID. An empty newParentID
// turns the child into a root task. The child's group follows its new parent.
func (m *Manager) MoveSubtask(childID, newParentID string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	child, ok := m.tasks[childID]
	if !ok {
		return nil, m.notFound("move subtask", "task", childID)
	}
	var parent *model.Task
	if newParentID != "" {
		if parent, ok = m.tasks[newParentID]; !ok {
			return nil, m.notFound("move subtask", "parent", newParentID)
		}
		if m.hasCircularReference(newParentID, childID) {
			return nil, fmt.Errorf("move %s under %s: %w", childID, newParentID, ErrCircular)
		}
	}
	if child.ParentID == newParentID {
		return copyTask(child), nil
	}

	now := m.now()
	if old, ok := m.tasks[child.ParentID]; ok {
		old.SubtaskIDs = removeID(old.SubtaskIDs, childID)
		old.UpdatedAt = now
	}
	child.ParentID = newParentID
	child.UpdatedAt = now
	if parent != nil {
		parent.SubtaskIDs = append(parent.SubtaskIDs, childID)
		parent.UpdatedAt = now
		m.setGroupRecursive(child, parent.GroupID, make(map[string]bool))
	}

	return copyTask(child), m.saveTasks()
}

func (m *Manager) setGroupRecursive(t *model.Task, groupID string, seen map[string]bool) {
	if seen[t.ID] {
		return
	}
	seen[t.ID] = true
	t.GroupID = groupID
	for _, id := range t.SubtaskIDs {
		if c, ok := m.tasks[id]; ok {
			m.setGroupRecursive(c, groupID, seen)
		}
	}
}

// SubtaskProgress counts every descendant of parentID and how many are done
func (m *Manager) SubtaskProgress(parentID string) model.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()

	var p model.Progress
	m.progress(parentID, &p, map[string]bool{parentID: true})
	return p
}

func (m *Manager) progress(id string, p *model.Progress, seen map[string]bool) {
	t, ok := m.tasks[id]
	if !ok {
		return
	}
	for _, cid := range t.SubtaskIDs {
		c, ok := m.tasks[cid]
		if !ok || seen[cid] {
			continue
		}
		seen[cid] = true
		p.Total++
		if c.Completed {
			p.Completed++
		}
		m.progress(cid, p, seen)
	}
}

// IncompleteSubtaskCount returns how many descendants are still open
func (m *Manager) IncompleteSubtaskCount(parentID string) int {
	return m.SubtaskProgress(parentID).Incomplete()
}

// CompleteAllSubtasks marks every descendant of parentID completed. The
// parent itself is left alone.
func (m *Manager) CompleteAllSubtasks(parentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[parentID]; !ok {
		return m.notFound("complete subtasks", "task", parentID)
	}
	m.completeDescendants(parentID, m.now(), map[string]bool{parentID: true})
	return m.saveTasks()
}

func (m *Manager) completeDescendants(id string, now time.Time, seen map[string]bool) {
	t, ok := m.tasks[id]
	if !ok {
		return
	}
	for _, cid := range t.SubtaskIDs {
		c, ok := m.tasks[cid]
		if !ok || seen[cid] {
			continue
		}
		seen[cid] = true
		c.Completed = true
		c.UpdatedAt = now
		m.completeDescendants(cid, now, seen)
	}
}
