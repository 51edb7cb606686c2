package model

import (
	"time"
)

// AllGroups is the active-group sentinel meaning "every group"
const AllGroups = "all"

// Group is a named partition of tasks
type Group struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Order     int       `json:"order" yaml:"order"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Statistics is a snapshot of task counts for one group or for all groups
type Statistics struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`

	RootTotal      int `json:"rootTotal"`
	RootCompleted  int `json:"rootCompleted"`
	RootIncomplete int `json:"rootIncomplete"`

	// Due buckets count incomplete tasks only
	Overdue  int `json:"overdue"`
	Today    int `json:"today"`
	Tomorrow int `json:"tomorrow"`

	Recurring    int `json:"recurring"`
	WithSubtasks int `json:"withSubtasks"`

	// Priority buckets count incomplete tasks only
	PriorityHigh   int `json:"priorityHigh"`
	PriorityMedium int `json:"priorityMedium"`
	PriorityLow    int `json:"priorityLow"`
}
