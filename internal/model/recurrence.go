package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// RecurrenceType selects how the next due date is computed
type RecurrenceType string

const (
	RecurDaily    RecurrenceType = "daily"
	RecurWeekly   RecurrenceType = "weekly"
	RecurMonthly  RecurrenceType = "monthly"
	RecurCustom   RecurrenceType = "custom"
	RecurWeekdays RecurrenceType = "weekdays"
)

// EndType selects when a recurrence stops
type EndType string

const (
	EndNever EndType = "never"
	EndCount EndType = "count"
	EndDate  EndType = "date"
)

// CompletionBehavior decides what completing a recurring task does
type CompletionBehavior string

const (
	// CreateNext generates the next occurrence immediately
	CreateNext CompletionBehavior = "createNext"
	// CreateOnDue defers generation to the startup sweep
	CreateOnDue CompletionBehavior = "createOnDue"
	// Reset reopens the same task with an advanced due date
	Reset CompletionBehavior = "reset"
)

// EndCondition bounds a recurrence by count or date
type EndCondition struct {
	Type    EndType    `json:"type" yaml:"type"`
	Count   int        `json:"count,omitempty" yaml:"count,omitempty"`
	EndDate *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// Recurrence is embedded in a Task and describes its repeat schedule
type Recurrence struct {
	Enabled            bool               `json:"enabled" yaml:"enabled"`
	Type               RecurrenceType     `json:"type" yaml:"type"`
	Interval           int                `json:"interval,omitempty" yaml:"interval,omitempty"`
	Weekdays           []int              `json:"weekdays,omitempty" yaml:"weekdays,omitempty"`
	EndCondition       *EndCondition      `json:"endCondition,omitempty" yaml:"endCondition,omitempty"`
	CompletionBehavior CompletionBehavior `json:"completionBehavior,omitempty" yaml:"completionBehavior,omitempty"`
	CompletedCount     int                `json:"completedCount" yaml:"completedCount"`
	OriginalTaskID     string             `json:"originalTaskId,omitempty" yaml:"originalTaskId,omitempty"`
}

// Behavior returns the completion behavior, defaulting to CreateNext
func (r *Recurrence) Behavior() CompletionBehavior {
	if r.CompletionBehavior == "" {
		return CreateNext
	}
	return r.CompletionBehavior
}

// Clone returns a deep copy of the recurrence
func (r Recurrence) Clone() Recurrence {
	c := r
	c.Weekdays = slices.Clone(r.Weekdays)
	if r.EndCondition != nil {
		ec := *r.EndCondition
		if ec.EndDate != nil {
			d := *ec.EndDate
			ec.EndDate = &d
		}
		c.EndCondition = &ec
	}
	return c
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe returns a short human readable schedule, or "" when disabled
func (r *Recurrence) Describe() string {
	if r == nil || !r.Enabled {
		return ""
	}

	switch r.Type {
	case RecurDaily:
		return "Every day"
	case RecurWeekly:
		return "Every week"
	case RecurMonthly:
		return "Every month"
	case RecurCustom:
		n := r.Interval
		if n <= 1 {
			return "Every day"
		}
		return fmt.Sprintf("Every %d days", n)
	case RecurWeekdays:
		if len(r.Weekdays) == 0 {
			return "Selected weekdays"
		}
		days := slices.Clone(r.Weekdays)
		slices.Sort(days)
		names := make([]string, 0, len(days))
		for _, d := range days {
			if d >= 0 && d < len(weekdayNames) {
				names = append(names, weekdayNames[d])
			}
		}
		return "Weekly on " + strings.Join(names, ", ")
	default:
		return "Repeats"
	}
}
