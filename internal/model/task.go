package model

import (
	"slices"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from highest to lowest
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Weight returns a numeric weight for sorting by priority
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task represents a todo item.
// Subtasks are stored flat next to their parents and linked by id.
type Task struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description,omitempty"`
	Completed   bool        `json:"completed" yaml:"completed"`
	GroupID     string      `json:"groupId" yaml:"groupId"`
	Tags        []string    `json:"tags" yaml:"tags,omitempty"`
	Priority    Priority    `json:"priority" yaml:"priority"`
	DueDate     *time.Time  `json:"dueDate" yaml:"dueDate,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" yaml:"updatedAt"`
	ParentID    string      `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	SubtaskIDs  []string    `json:"subtaskIds" yaml:"subtaskIds,omitempty"`
	Recurrence  *Recurrence `json:"recurrence" yaml:"recurrence,omitempty"`
}

// IsRoot returns true if the task has no parent
func (t *Task) IsRoot() bool {
	return t.ParentID == ""
}

// HasSubtasks returns true if the task lists at least one child
func (t *Task) HasSubtasks() bool {
	return len(t.SubtaskIDs) > 0
}

// HasTag returns true if the task carries the tag
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// IsRecurring returns true if the task has an enabled recurrence
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.Enabled
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	c.SubtaskIDs = slices.Clone(t.SubtaskIDs)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Recurrence != nil {
		r := t.Recurrence.Clone()
		c.Recurrence = &r
	}
	return c
}

// Progress aggregates completion over a subtask tree
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Incomplete returns the number of unfinished subtasks
func (p Progress) Incomplete() int {
	return p.Total - p.Completed
}

// DueStatus classifies a due date relative to today
type DueStatus string

const (
	DueNone     DueStatus = "none"
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "today"
	DueTomorrow DueStatus = "tomorrow"
	DueUpcoming DueStatus = "upcoming"
)

// DueDateStatus compares the calendar day of due against the calendar day of
// now, both in now's location.
func DueDateStatus(due *time.Time, now time.Time) DueStatus {
	if due == nil {
		return DueNone
	}

	loc := now.Location()
	today := StartOfDay(now)
	d := due.In(loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)

	switch {
	case day.Before(today):
		return DueOverdue
	case day.Equal(today):
		return DueToday
	case day.Equal(today.AddDate(0, 0, 1)):
		return DueTomorrow
	default:
		return DueUpcoming
	}
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
