package model

// SortBy names a task sort key
type SortBy string

const (
	SortCreatedAt SortBy = "createdAt"
	SortDueDate   SortBy = "dueDate"
	SortPriority  SortBy = "priority"
	SortTitle     SortBy = "title"
)

// SortOrder is the sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters narrows a task list. Empty criteria impose no constraint; a nil
// ShowCompleted lets completed tasks through.
type Filters struct {
	SelectedTags       []string   `json:"selectedTags"`
	SelectedPriorities []Priority `json:"selectedPriorities"`
	ShowCompleted      *bool      `json:"showCompleted,omitempty"`
}

// ShowsCompleted reports whether completed tasks pass the filter
func (f Filters) ShowsCompleted() bool {
	return f.ShowCompleted == nil || *f.ShowCompleted
}

// SetShowCompleted replaces the completed-task switch. A fresh pointer is
// stored so copies of the settings never share it.
func (f *Filters) SetShowCompleted(show bool) {
	f.ShowCompleted = &show
}

// Settings holds user preferences persisted next to the task data
type Settings struct {
	Tags      []string  `json:"tags"`
	Theme     string    `json:"theme"`
	SortBy    SortBy    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
	Filters   Filters   `json:"filters"`
}

// DefaultSettings returns the settings used when nothing is stored.
// Every stored blob is merged on top of this value.
func DefaultSettings() Settings {
	show := true
	return Settings{
		Tags:      []string{},
		Theme:     "light",
		SortBy:    SortCreatedAt,
		SortOrder: SortDesc,
		Filters: Filters{
			SelectedTags:       []string{},
			SelectedPriorities: []Priority{},
			ShowCompleted:      &show,
		},
	}
}

// HasTag reports whether the tag is registered
func (s *Settings) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
