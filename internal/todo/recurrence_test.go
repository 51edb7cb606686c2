package todo

import (
	"testing"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNextDueDate(t *testing.T) {
	jan31 := day(2024, 1, 31)

	tests := []struct {
		name string
		rec  model.Recurrence
		want time.Time
	}{
		{"daily", model.Recurrence{Type: model.RecurDaily}, day(2024, 2, 1)},
		{"weekly", model.Recurrence{Type: model.RecurWeekly}, day(2024, 2, 7)},
		// month overflow normalises instead of clamping
		{"monthly", model.Recurrence{Type: model.RecurMonthly}, day(2024, 3, 2)},
		{"custom", model.Recurrence{Type: model.RecurCustom, Interval: 3}, day(2024, 2, 3)},
		{"custom default", model.Recurrence{Type: model.RecurCustom}, day(2024, 2, 1)},
		// Jan 31 2024 is a Wednesday
		{"weekdays", model.Recurrence{Type: model.RecurWeekdays, Weekdays: []int{5, 1}}, day(2024, 2, 2)},
		{"unknown", model.Recurrence{Type: "yearly"}, day(2024, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateNextDueDate(jan31, tt.rec))
		})
	}
}

func TestNextWeekday(t *testing.T) {
	tue := day(2024, 3, 12)
	sat := day(2024, 3, 16)
	require.Equal(t, time.Tuesday, tue.Weekday())
	require.Equal(t, time.Saturday, sat.Weekday())

	assert.Equal(t, day(2024, 3, 13), NextWeekday(tue, []int{1, 3, 5}))
	assert.Equal(t, day(2024, 3, 18), NextWeekday(sat, []int{1, 3, 5}))
	assert.Equal(t, day(2024, 3, 19), NextWeekday(tue, []int{2}))
	assert.Equal(t, day(2024, 3, 13), NextWeekday(tue, nil))

	// out-of-range days are dropped before the search
	assert.Equal(t, day(2024, 3, 13), NextWeekday(tue, []int{9}))
	assert.Equal(t, day(2024, 3, 14), NextWeekday(tue, []int{-1, 4, 7}))
	assert.Equal(t, day(2024, 3, 17), NextWeekday(sat, []int{0, 12}))
}

func TestIsRecurrenceEnded(t *testing.T) {
	count := func(n, done int) *model.Recurrence {
		return &model.Recurrence{
			Enabled:        true,
			EndCondition:   &model.EndCondition{Type: model.EndCount, Count: n},
			CompletedCount: done,
		}
	}
	end := day(2024, 3, 10)

	assert.True(t, IsRecurrenceEnded(nil, baseTime))
	assert.True(t, IsRecurrenceEnded(&model.Recurrence{}, baseTime))
	assert.False(t, IsRecurrenceEnded(&model.Recurrence{Enabled: true}, baseTime))
	assert.False(t, IsRecurrenceEnded(&model.Recurrence{Enabled: true, EndCondition: &model.EndCondition{Type: model.EndNever}}, baseTime))
	assert.True(t, IsRecurrenceEnded(count(3, 3), baseTime))
	assert.False(t, IsRecurrenceEnded(count(3, 2), baseTime))
	assert.True(t, IsRecurrenceEnded(count(0, 1), baseTime), "count defaults to 1")
	dated := &model.Recurrence{Enabled: true, EndCondition: &model.EndCondition{Type: model.EndDate, EndDate: &end}}
	assert.True(t, IsRecurrenceEnded(dated, baseTime))
	assert.False(t, IsRecurrenceEnded(dated, day(2024, 3, 9)))
	assert.False(t, IsRecurrenceEnded(&model.Recurrence{Enabled: true, EndCondition: &model.EndCondition{Type: "someday"}}, baseTime))
}

func createRecurring(t *testing.T, e *testEnv, due *time.Time, rec model.Recurrence) *model.Task {
	t.Helper()
	rec.Enabled = true
	task, err := e.Create(TaskInput{
		Title:       "Water plants",
		Description: "balcony",
		Tags:        []string{"home"},
		Priority:    model.PriorityHigh,
		DueDate:     due,
		Recurrence:  &rec,
	})
	require.NoError(t, err)
	_, err = e.ToggleComplete(task.ID)
	require.NoError(t, err)
	return task
}

func TestHandleCompletionCreateNext(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 1, 31)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurDaily, CompletionBehavior: model.CreateNext})
	sub := e.mustSubtask(t, src.ID, "sub")

	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.NotEqual(t, src.ID, next.ID)
	assert.Equal(t, day(2024, 2, 1), *next.DueDate)
	assert.Equal(t, "Water plants", next.Title)
	assert.Equal(t, "balcony", next.Description)
	assert.Equal(t, []string{"home"}, next.Tags)
	assert.Equal(t, model.PriorityHigh, next.Priority)
	assert.Equal(t, src.GroupID, next.GroupID)
	assert.False(t, next.Completed)
	assert.Empty(t, next.SubtaskIDs)
	assert.True(t, next.IsRoot())
	assert.Equal(t, src.ID, next.Recurrence.OriginalTaskID)
	assert.Equal(t, 1, next.Recurrence.CompletedCount)

	got, _ := e.Get(src.ID)
	assert.Equal(t, 1, got.Recurrence.CompletedCount)
	assert.Equal(t, []string{sub.ID}, got.SubtaskIDs)

	// lineage is kept across generations
	_, err = e.ToggleComplete(next.ID)
	require.NoError(t, err)
	third, err := e.HandleTaskCompletion(next.ID)
	require.NoError(t, err)
	require.NotNil(t, third)
	assert.Equal(t, src.ID, third.Recurrence.OriginalTaskID)
	assert.Equal(t, 2, third.Recurrence.CompletedCount)
	assert.Equal(t, day(2024, 2, 2), *third.DueDate)
}

func TestHandleCompletionWithoutDueDateUsesNow(t *testing.T) {
	e := newTestEnv(t)
	src := createRecurring(t, e, nil, model.Recurrence{Type: model.RecurWeekly})

	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, baseTime.AddDate(0, 0, 7), *next.DueDate)
}

func TestHandleCompletionMonthlyOverflow(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 1, 31)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurMonthly})

	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 2), *next.DueDate)
}

func TestHandleCompletionReset(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 15)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurWeekly, CompletionBehavior: model.Reset})

	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, e.All(), 1)

	got, _ := e.Get(src.ID)
	assert.False(t, got.Completed)
	assert.Equal(t, day(2024, 3, 22), *got.DueDate)
	assert.Equal(t, 1, got.Recurrence.CompletedCount)
}

func TestHandleCompletionCreateOnDueDefers(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 15)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurDaily, CompletionBehavior: model.CreateOnDue})

	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, e.All(), 1)
}

func TestHandleCompletionStopsAtCount(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 15)
	src := createRecurring(t, e, &due, model.Recurrence{
		Type:           model.RecurDaily,
		EndCondition:   &model.EndCondition{Type: model.EndCount, Count: 3},
		CompletedCount: 2,
	})
	e.store.resetCounts()

	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, e.All(), 1)
	assert.Equal(t, 1, e.store.taskSaves, "the count is still persisted")
}

func TestGenerateStopsPastEndDate(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 20)
	end := day(2024, 3, 20).Add(12 * time.Hour)
	src := createRecurring(t, e, &due, model.Recurrence{
		Type:         model.RecurDaily,
		EndCondition: &model.EndCondition{Type: model.EndDate, EndDate: &end},
	})

	// not ended yet, but the next occurrence would pass the end date
	next, err := e.HandleTaskCompletion(src.ID)
	require.NoError(t, err)
	assert.Nil(t, next)

	next, err = e.GenerateNextRecurrence(src.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, e.All(), 1)
}

func TestGenerateNextRecurrence(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 15)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurCustom, Interval: 2})

	next, err := e.GenerateNextRecurrence(src.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, day(2024, 3, 17), *next.DueDate)

	_, err = e.GenerateNextRecurrence("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleCompletionNonRecurring(t *testing.T) {
	e := newTestEnv(t)
	task := e.mustCreate(t, "plain")
	e.store.resetCounts()

	next, err := e.HandleTaskCompletion(task.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, 0, e.store.taskSaves)

	_, err = e.HandleTaskCompletion("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleCompletionPersistFailure(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 15)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurDaily, CompletionBehavior: model.CreateNext})
	e.store.resetCounts()
	e.store.fail = true

	next, err := e.HandleTaskCompletion(src.ID)
	assert.ErrorIs(t, err, ErrPersist)
	require.NotNil(t, next)
	assert.Equal(t, day(2024, 3, 16), *next.DueDate)
	assert.Equal(t, src.ID, next.Recurrence.OriginalTaskID)

	// both saves were attempted and the in-memory effect stays
	assert.Equal(t, 2, e.store.taskSaves)
	assert.Len(t, e.All(), 2)
	got, err := e.Get(src.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Recurrence.CompletedCount)

	// storage recovers: the next save carries the generated task
	e.store.fail = false
	require.NoError(t, e.Save())
	assert.Len(t, e.store.tasks, 2)
}

func TestHandleCompletionResetPersistFailure(t *testing.T) {
	e := newTestEnv(t)
	due := day(2024, 3, 15)
	src := createRecurring(t, e, &due, model.Recurrence{Type: model.RecurDaily, CompletionBehavior: model.Reset})
	e.store.fail = true

	next, err := e.HandleTaskCompletion(src.ID)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Nil(t, next)

	got, err := e.Get(src.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Equal(t, day(2024, 3, 16), *got.DueDate)
}

func TestCheckScheduledRecurrences(t *testing.T) {
	e := newTestEnv(t)

	// due yesterday, next due today at midnight which has passed
	past := day(2024, 3, 14)
	ready := createRecurring(t, e, &past, model.Recurrence{Type: model.RecurDaily, CompletionBehavior: model.CreateOnDue})

	// next due in a week
	soon := day(2024, 3, 15)
	createRecurring(t, e, &soon, model.Recurrence{Type: model.RecurWeekly, CompletionBehavior: model.CreateOnDue})

	// already ended
	createRecurring(t, e, &past, model.Recurrence{
		Type:               model.RecurDaily,
		CompletionBehavior: model.CreateOnDue,
		EndCondition:       &model.EndCondition{Type: model.EndCount, Count: 1},
		CompletedCount:     1,
	})

	// wrong behavior
	createRecurring(t, e, &past, model.Recurrence{Type: model.RecurDaily})

	// not completed
	open, err := e.Create(TaskInput{
		Title:      "open",
		DueDate:    &past,
		Recurrence: &model.Recurrence{Enabled: true, Type: model.RecurDaily, CompletionBehavior: model.CreateOnDue},
	})
	require.NoError(t, err)
	require.False(t, open.Completed)

	e.store.resetCounts()
	generated, err := e.CheckScheduledRecurrences()
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, ready.ID, generated[0].Recurrence.OriginalTaskID)
	assert.Equal(t, day(2024, 3, 15), *generated[0].DueDate)
	assert.Equal(t, 1, e.store.taskSaves)

	// a second session does not duplicate the occurrence
	again, err := e.CheckScheduledRecurrences()
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 1, e.store.taskSaves)
}

func TestCheckScheduledRecurrencesWithoutDueDate(t *testing.T) {
	e := newTestEnv(t)
	src := createRecurring(t, e, nil, model.Recurrence{Type: model.RecurDaily, CompletionBehavior: model.CreateOnDue})

	generated, err := e.CheckScheduledRecurrences()
	require.NoError(t, err)
	assert.Empty(t, generated, "one day after the last update has not arrived yet")

	e.clock.Advance(25 * time.Hour)
	generated, err = e.CheckScheduledRecurrences()
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, src.ID, generated[0].Recurrence.OriginalTaskID)
}
