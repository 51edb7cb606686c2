package todo

import (
	"testing"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/stretchr/testify/assert"
)

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestFilter(t *testing.T) {
	tasks := []model.Task{
		{Title: "a", Tags: []string{"work"}, Priority: model.PriorityHigh},
		{Title: "b", Tags: []string{"home"}, Priority: model.PriorityLow, Completed: true},
		{Title: "c", Tags: []string{"work", "home"}, Priority: model.PriorityMedium},
		{Title: "d", Priority: model.PriorityHigh},
	}

	show, hide := true, false
	tests := []struct {
		name   string
		filter model.Filters
		want   []string
	}{
		{"no criteria", model.Filters{}, []string{"a", "b", "c", "d"}},
		{"show completed", model.Filters{ShowCompleted: &show}, []string{"a", "b", "c", "d"}},
		{"hide completed", model.Filters{ShowCompleted: &hide}, []string{"a", "c", "d"}},
		{"any tag", model.Filters{SelectedTags: []string{"home", "other"}}, []string{"b", "c"}},
		{"priority set", model.Filters{SelectedPriorities: []model.Priority{model.PriorityHigh}}, []string{"a", "d"}},
		{"combined", model.Filters{SelectedTags: []string{"work"}, SelectedPriorities: []model.Priority{model.PriorityMedium}, ShowCompleted: &hide}, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(tasks, tt.filter)))
		})
	}
}

func TestSortDueDateNullsLast(t *testing.T) {
	d1 := day(2024, 3, 1)
	d2 := day(2024, 3, 2)
	tasks := []model.Task{
		{Title: "none1"},
		{Title: "late", DueDate: &d2},
		{Title: "none2"},
		{Title: "early", DueDate: &d1},
	}

	assert.Equal(t, []string{"early", "late", "none1", "none2"}, titles(Sort(tasks, model.SortDueDate, model.SortAsc)))
	assert.Equal(t, []string{"late", "early", "none1", "none2"}, titles(Sort(tasks, model.SortDueDate, model.SortDesc)))
	// input untouched
	assert.Equal(t, "none1", tasks[0].Title)
}

func TestSortPriorityAndCreatedAt(t *testing.T) {
	tasks := []model.Task{
		{Title: "m", Priority: model.PriorityMedium, CreatedAt: baseTime.Add(2 * time.Hour)},
		{Title: "h", Priority: model.PriorityHigh, CreatedAt: baseTime},
		{Title: "l", Priority: model.PriorityLow, CreatedAt: baseTime.Add(time.Hour)},
	}

	assert.Equal(t, []string{"h", "m", "l"}, titles(Sort(tasks, model.SortPriority, model.SortDesc)))
	assert.Equal(t, []string{"l", "m", "h"}, titles(Sort(tasks, model.SortPriority, model.SortAsc)))
	assert.Equal(t, []string{"h", "l", "m"}, titles(Sort(tasks, model.SortCreatedAt, model.SortAsc)))
	assert.Equal(t, []string{"m", "l", "h"}, titles(Sort(tasks, model.SortCreatedAt, model.SortDesc)))
}

func TestSortTitleCollation(t *testing.T) {
	tasks := []model.Task{{Title: "banana"}, {Title: "Éclair"}, {Title: "apple"}, {Title: "Cherry"}}

	assert.Equal(t, []string{"apple", "banana", "Cherry", "Éclair"}, titles(Sort(tasks, model.SortTitle, model.SortAsc)))
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	tasks := []model.Task{{Title: "b"}, {Title: "a"}}
	assert.Equal(t, []string{"b", "a"}, titles(Sort(tasks, "color", model.SortAsc)))
}

func TestSortIsStable(t *testing.T) {
	tasks := []model.Task{
		{Title: "first", Priority: model.PriorityHigh},
		{Title: "second", Priority: model.PriorityHigh},
		{Title: "third", Priority: model.PriorityHigh},
	}
	assert.Equal(t, []string{"first", "second", "third"}, titles(Sort(tasks, model.SortPriority, model.SortDesc)))
}
