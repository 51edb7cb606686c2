package todo

import (
	"time"

	"github.com/dori/grove/internal/model"
)

// Statistics counts the tasks of a group. An empty id means the active group
// and model.AllGroups means every group.
func (m *Manager) Statistics(groupID string) model.Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if groupID == "" {
		groupID = m.activeGroup
	}
	return computeStatistics(m.tasksByGroup(groupID), m.now())
}

func computeStatistics(tasks []model.Task, now time.Time) model.Statistics {
	var s model.Statistics
	for i := range tasks {
		t := &tasks[i]

		s.Total++
		if t.Completed {
			s.Completed++
		}
		if t.IsRoot() {
			s.RootTotal++
			if t.Completed {
				s.RootCompleted++
			}
		}
		if t.IsRecurring() {
			s.Recurring++
		}
		if t.HasSubtasks() {
			s.WithSubtasks++
		}
		if t.Completed {
			continue
		}

		switch model.DueDateStatus(t.DueDate, now) {
		case model.DueOverdue:
			s.Overdue++
		case model.DueToday:
			s.Today++
		case model.DueTomorrow:
			s.Tomorrow++
		}
		switch t.Priority {
		case model.PriorityHigh:
			s.PriorityHigh++
		case model.PriorityMedium:
			s.PriorityMedium++
		case model.PriorityLow:
			s.PriorityLow++
		}
	}
	s.Incomplete = s.Total - s.Completed
	s.RootIncomplete = s.RootTotal - s.RootCompleted
	return s
}

// DueDateStatus classifies due against the manager's clock
func (m *Manager) DueDateStatus(due *time.Time) model.DueStatus {
	return model.DueDateStatus(due, m.now())
}

// Now returns the manager's current time
func (m *Manager) Now() time.Time {
	return m.now()
}
