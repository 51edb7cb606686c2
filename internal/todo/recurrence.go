package todo

import (
	"errors"
	"slices"
	"time"

	"github.com/dori/grove/internal/model"
)

// CalculateNextDueDate advances current by one recurrence step. Calendar
// arithmetic runs in current's location and lets month overflow normalise,
// so Jan 31 plus one month is Mar 2 in a leap year.
func CalculateNextDueDate(current time.Time, r model.Recurrence) time.Time {
	switch r.Type {
	case model.RecurDaily:
		return current.AddDate(0, 0, 1)
	case model.RecurWeekly:
		return current.AddDate(0, 0, 7)
	case model.RecurMonthly:
		return current.AddDate(0, 1, 0)
	case model.RecurCustom:
		n := r.Interval
		if n <= 0 {
			n = 1
		}
		return current.AddDate(0, 0, n)
	case model.RecurWeekdays:
		return NextWeekday(current, r.Weekdays)
	default:
		return current.AddDate(0, 0, 1)
	}
}

// NextWeekday returns the next date after current that falls on one of
// weekdays (0 is Sunday). Values outside 0-6 are ignored; an empty set means
// the next day.
func NextWeekday(current time.Time, weekdays []int) time.Time {
	days := slices.DeleteFunc(slices.Clone(weekdays), func(d int) bool {
		return d < 0 || d > 6
	})
	if len(days) == 0 {
		return current.AddDate(0, 0, 1)
	}
	slices.Sort(days)
	today := int(current.Weekday())
	for _, d := range days {
		if d > today {
			return current.AddDate(0, 0, d-today)
		}
	}
	return current.AddDate(0, 0, 7-today+days[0])
}

// IsRecurrenceEnded reports whether r should stop producing occurrences.
// A nil or disabled recurrence counts as ended.
func IsRecurrenceEnded(r *model.Recurrence, now time.Time) bool {
	if r == nil || !r.Enabled {
		return true
	}
	ec := r.EndCondition
	if ec == nil {
		return false
	}

	switch ec.Type {
	case model.EndCount:
		limit := ec.Count
		if limit <= 0 {
			limit = 1
		}
		return r.CompletedCount >= limit
	case model.EndDate:
		if ec.EndDate == nil {
			return false
		}
		return now.After(*ec.EndDate)
	default:
		return false
	}
}

// HandleTaskCompletion applies a recurring task's completion behavior. Call
// it after the task has been marked completed. It returns the generated
// occurrence, or nil when nothing was created.
func (m *Manager) HandleTaskCompletion(id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, m.notFound("handle completion", "task", id)
	}
	if !t.IsRecurring() {
		return nil, nil
	}

	now := m.now()
	t.Recurrence.CompletedCount++
	t.UpdatedAt = now

	// the count is kept even when saving fails
	var errs []error
	errs = append(errs, m.saveTasks())

	if IsRecurrenceEnded(t.Recurrence, now) {
		m.log.Debug("recurrence ended", "id", id, "completed", t.Recurrence.CompletedCount)
		return nil, errors.Join(errs...)
	}

	switch t.Recurrence.Behavior() {
	case model.CreateNext:
		next := m.generateNext(t)
		if next == nil {
			return nil, errors.Join(errs...)
		}
		errs = append(errs, m.saveTasks())
		return copyTask(next), errors.Join(errs...)
	case model.Reset:
		t.Completed = false
		if t.DueDate != nil {
			d := CalculateNextDueDate(*t.DueDate, *t.Recurrence)
			t.DueDate = &d
		}
		errs = append(errs, m.saveTasks())
		return nil, errors.Join(errs...)
	default:
		// createOnDue waits for CheckScheduledRecurrences
		return nil, errors.Join(errs...)
	}
}

// GenerateNextRecurrence creates the occurrence following task id. It returns
// nil when the next due date would pass the recurrence's end date.
func (m *Manager) GenerateNextRecurrence(id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, m.notFound("generate recurrence", "task", id)
	}
	next := m.generateNext(t)
	if next == nil {
		return nil, nil
	}
	return copyTask(next), m.saveTasks()
}

func (m *Manager) nextDueFrom(t *model.Task, fallback time.Time) time.Time {
	base := fallback
	if t.DueDate != nil {
		base = *t.DueDate
	}
	return CalculateNextDueDate(base, *t.Recurrence)
}

// generateNext stores the next occurrence of t without persisting
func (m *Manager) generateNext(t *model.Task) *model.Task {
	if !t.IsRecurring() {
		return nil
	}
	return m.generateAt(t, m.nextDueFrom(t, m.now()))
}

func (m *Manager) generateAt(t *model.Task, due time.Time) *model.Task {
	if ec := t.Recurrence.EndCondition; ec != nil && ec.Type == model.EndDate && ec.EndDate != nil && due.After(*ec.EndDate) {
		m.log.Debug("next occurrence past end date", "id", t.ID, "due", due)
		return nil
	}

	rec := t.Recurrence.Clone()
	if rec.OriginalTaskID == "" {
		rec.OriginalTaskID = t.ID
	}

	next, err := m.insert(TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Tags:        t.Tags,
		Priority:    t.Priority,
		DueDate:     &due,
		GroupID:     t.GroupID,
		Recurrence:  &rec,
	}, "")
	if err != nil {
		// only possible when the source group is gone
		m.log.Warn("failed to generate next occurrence", "id", t.ID, "error", err)
		return nil
	}
	m.log.Debug("generated occurrence", "from", t.ID, "id", next.ID, "due", due)
	return next
}

// CheckScheduledRecurrences generates the pending occurrences of completed
// createOnDue tasks whose next due date has arrived. A lineage that already
// holds an occurrence for that date is skipped. All new tasks are persisted
// together.
func (m *Manager) CheckScheduledRecurrences() ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var due []*model.Task
	for _, id := range m.order {
		t := m.tasks[id]
		if !t.Completed || !t.IsRecurring() || t.Recurrence.Behavior() != model.CreateOnDue {
			continue
		}
		if IsRecurrenceEnded(t.Recurrence, now) {
			continue
		}
		due = append(due, t)
	}

	generated := []model.Task{}
	for _, t := range due {
		nextDue := m.nextDueFrom(t, t.UpdatedAt)
		if nextDue.After(now) || m.hasOccurrence(lineage(t), nextDue) {
			continue
		}
		if next := m.generateAt(t, nextDue); next != nil {
			generated = append(generated, next.Clone())
		}
	}

	if len(generated) == 0 {
		return generated, nil
	}
	m.log.Info("generated scheduled occurrences", "count", len(generated))
	return generated, m.saveTasks()
}

func lineage(t *model.Task) string {
	if t.Recurrence != nil && t.Recurrence.OriginalTaskID != "" {
		return t.Recurrence.OriginalTaskID
	}
	return t.ID
}

func (m *Manager) hasOccurrence(root string, due time.Time) bool {
	for _, t := range m.tasks {
		if t.DueDate == nil || !t.DueDate.Equal(due) {
			continue
		}
		if t.ID == root || (t.Recurrence != nil && t.Recurrence.OriginalTaskID == root) {
			return true
		}
	}
	return false
}
