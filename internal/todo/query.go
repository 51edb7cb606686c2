package todo

import (
	"slices"

	"github.com/dori/grove/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TitleLocale is the collation used when sorting by title
var TitleLocale = language.Und

// Filter returns the tasks matching f. Tags match when the task has any of
// the selected tags. Empty criteria match everything.
func Filter(tasks []model.Task, f model.Filters) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if len(f.SelectedTags) > 0 && !slices.ContainsFunc(f.SelectedTags, t.HasTag) {
			continue
		}
		if len(f.SelectedPriorities) > 0 && !slices.Contains(f.SelectedPriorities, t.Priority) {
			continue
		}
		if t.Completed && !f.ShowsCompleted() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort returns a stably sorted copy of tasks. Tasks without a due date stay
// last for SortDueDate in both directions. An unknown key keeps the input
// order.
func Sort(tasks []model.Task, by model.SortBy, order model.SortOrder) []model.Task {
	out := slices.Clone(tasks)

	dir := 1
	if order == model.SortDesc {
		dir = -1
	}

	var cmp func(a, b model.Task) int
	switch by {
	case model.SortCreatedAt:
		cmp = func(a, b model.Task) int { return dir * a.CreatedAt.Compare(b.CreatedAt) }
	case model.SortDueDate:
		cmp = func(a, b model.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return dir * a.DueDate.Compare(*b.DueDate)
		}
	case model.SortPriority:
		cmp = func(a, b model.Task) int { return dir * (a.Priority.Weight() - b.Priority.Weight()) }
	case model.SortTitle:
		col := collate.New(TitleLocale)
		cmp = func(a, b model.Task) int { return dir * col.CompareString(a.Title, b.Title) }
	default:
		return out
	}

	slices.SortStableFunc(out, cmp)
	return out
}
