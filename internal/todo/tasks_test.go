package todo

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaults(t *testing.T) {
	e := newTestEnv(t)

	task, err := e.Create(TaskInput{Title: "  Report  ", Tags: []string{"work", " work ", "", "home"}})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Report", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, []string{"work", "home"}, task.Tags)
	assert.Equal(t, []string{}, task.SubtaskIDs)
	assert.Equal(t, e.defaultGroup(t).ID, task.GroupID)
	assert.Equal(t, baseTime, task.CreatedAt)
	assert.Equal(t, baseTime, task.UpdatedAt)
	assert.True(t, task.IsRoot())
	assert.Equal(t, 1, e.store.taskSaves)
}

func TestCreateUsesFirstGroupWhenAllSelected(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.CreateGroup("Work")
	require.NoError(t, err)
	require.NoError(t, e.SetActiveGroup(model.AllGroups))

	task := e.mustCreate(t, "A")
	assert.Equal(t, e.defaultGroup(t).ID, task.GroupID)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.Create(TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{msgTitleRequired}, verr.Errors)

	_, err = e.Create(TaskInput{Title: "A", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = e.Create(TaskInput{Title: "A", GroupID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, e.All())
	assert.Equal(t, 0, e.store.taskSaves)
}

func TestCreateReturnsCopy(t *testing.T) {
	e := newTestEnv(t)
	task := e.mustCreate(t, "A")
	task.Title = "changed"
	task.Tags = append(task.Tags, "leak")

	got, err := e.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Empty(t, got.Tags)
}

func TestGetMissing(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMergesPatch(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 20)
	task, err := e.Create(TaskInput{Title: "A", DueDate: &due, Tags: []string{"x"}})
	require.NoError(t, err)
	e.store.resetCounts()
	e.clock.Advance(time.Hour)

	updated, err := e.Update(task.ID, TaskPatch{
		Title:    ptr("B"),
		Priority: ptr(model.PriorityHigh),
	})
	require.NoError(t, err)

	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, model.PriorityHigh, updated.Priority)
	assert.Equal(t, []string{"x"}, updated.Tags)
	assert.True(t, updated.DueDate.Equal(due))
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.Equal(t, baseTime.Add(time.Hour), updated.UpdatedAt)
	assert.Equal(t, 1, e.store.taskSaves)
}

func TestUpdateClearsFields(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 20)
	task, err := e.Create(TaskInput{
		Title:      "A",
		DueDate:    &due,
		Tags:       []string{"x"},
		Recurrence: &model.Recurrence{Enabled: true, Type: model.RecurDaily},
	})
	require.NoError(t, err)

	updated, err := e.Update(task.ID, TaskPatch{ClearDueDate: true, ClearRecurrence: true, Tags: []string{}})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Nil(t, updated.Recurrence)
	assert.Empty(t, updated.Tags)
}

func TestUpdateValidatesResult(t *testing.T) {
	e := newTestEnv(t)
	task := e.mustCreate(t, "A")
	e.store.resetCounts()

	_, err := e.Update(task.ID, TaskPatch{Title: ptr(strings.Repeat("x", 101))})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = e.Update(task.ID, TaskPatch{GroupID: ptr("nope")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.Update("missing", TaskPatch{Title: ptr("B")})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := e.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, 0, e.store.taskSaves)
}

func TestCreateRejectsWhatUpdateRejects(t *testing.T) {
	e := newTestEnv(t)
	parent := e.mustCreate(t, "Parent")
	e.store.resetCounts()

	_, err := e.Create(TaskInput{Title: strings.Repeat("x", 150)})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{msgTitleLength}, verr.Errors)

	_, err = e.Create(TaskInput{Title: "A", Description: strings.Repeat("d", 501)})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = e.AddSubtask(parent.ID, TaskInput{Title: strings.Repeat("x", 101)})
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Len(t, e.All(), 1)
	assert.Equal(t, 0, e.store.taskSaves)

	task, err := e.Create(TaskInput{Title: strings.Repeat("x", 100)})
	require.NoError(t, err)
	toggled, err := e.ToggleComplete(task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
}

func TestUpdateChecksOnlyPatchedFields(t *testing.T) {
	store := &fakeStore{tasks: []model.Task{{
		ID:          "legacy",
		Title:       strings.Repeat("x", 150),
		Description: strings.Repeat("d", 600),
		Priority:    "urgent",
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}}}
	e := newTestEnvWith(t, store)

	toggled, err := e.ToggleComplete("legacy")
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	retagged, err := e.Update("legacy", TaskPatch{Tags: []string{"old"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, retagged.Tags)

	_, err = e.Update("legacy", TaskPatch{Priority: ptr(model.Priority("urgent"))})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{msgPriority}, verr.Errors)

	fixed, err := e.Update("legacy", TaskPatch{Title: ptr("Short"), Priority: ptr(model.PriorityHigh)})
	require.NoError(t, err)
	assert.Equal(t, "Short", fixed.Title)
	assert.Equal(t, model.PriorityHigh, fixed.Priority)
}

func TestToggleComplete(t *testing.T) {
	e := newTestEnv(t)
	task, err := e.Create(TaskInput{
		Title:      "A",
		Recurrence: &model.Recurrence{Enabled: true, Type: model.RecurDaily},
	})
	require.NoError(t, err)

	toggled, err := e.ToggleComplete(task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	// no recurrence side effects
	assert.Len(t, e.All(), 1)
	assert.Equal(t, 0, toggled.Recurrence.CompletedCount)

	toggled, err = e.ToggleComplete(task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = e.ToggleComplete("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascades(t *testing.T) {
	e := newTestEnv(t)
	root := e.mustCreate(t, "root")
	parent := e.mustSubtask(t, root.ID, "parent")
	child := e.mustSubtask(t, parent.ID, "child")
	e.mustSubtask(t, child.ID, "grandchild")
	e.mustSubtask(t, parent.ID, "child 2")
	other := e.mustCreate(t, "other")
	e.store.resetCounts()

	// parent has 3 descendants
	n, err := e.Delete(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, e.store.taskSaves)

	all := e.All()
	require.Len(t, all, 2)
	assert.Equal(t, root.ID, all[0].ID)
	assert.Equal(t, other.ID, all[1].ID)
	assert.Empty(t, all[0].SubtaskIDs)
	assert.Len(t, e.store.tasks, 2)
}

func TestDeleteMissing(t *testing.T) {
	e := newTestEnv(t)
	n, err := e.Delete("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, n)
	assert.Equal(t, 0, e.store.taskSaves)
}

func TestPersistFailureKeepsChange(t *testing.T) {
	e := newTestEnv(t)
	e.store.fail = true

	task, err := e.Create(TaskInput{Title: "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	require.NotNil(t, task)
	assert.Len(t, e.All(), 1)

	e.store.fail = false
	require.NoError(t, e.Save())
	assert.Len(t, e.store.tasks, 1)
}
