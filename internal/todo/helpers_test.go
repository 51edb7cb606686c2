package todo

import (
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/stretchr/testify/require"
)

// fakeStore records saves and can be told to fail them
type fakeStore struct {
	tasks  []model.Task
	groups []model.Group
	active string

	taskSaves   int
	groupSaves  int
	activeSaves int
	fail        bool
}

func (s *fakeStore) LoadTasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (s *fakeStore) SaveTasks(tasks []model.Task) bool {
	s.taskSaves++
	if s.fail {
		return false
	}
	s.tasks = tasks
	return true
}

func (s *fakeStore) LoadGroups() []model.Group { return slices.Clone(s.groups) }

func (s *fakeStore) SaveGroups(groups []model.Group) bool {
	s.groupSaves++
	if s.fail {
		return false
	}
	s.groups = groups
	return true
}

func (s *fakeStore) LoadActiveGroup() string { return s.active }

func (s *fakeStore) SaveActiveGroup(id string) bool {
	s.activeSaves++
	if s.fail {
		return false
	}
	s.active = id
	return true
}

func (s *fakeStore) resetCounts() {
	s.taskSaves, s.groupSaves, s.activeSaves = 0, 0, 0
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Friday 2024-03-15 10:00 local time
var baseTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

type testEnv struct {
	*Manager
	store *fakeStore
	clock *fakeClock
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnvWith(t *testing.T, store *fakeStore) *testEnv {
	t.Helper()
	clock := &fakeClock{t: baseTime}
	m := New(store, WithClock(clock.Now), WithLogger(quietLogger()))
	require.NoError(t, m.Init())
	store.resetCounts()
	return &testEnv{Manager: m, store: store, clock: clock}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, &fakeStore{})
}

func (e *testEnv) mustCreate(t *testing.T, title string) *model.Task {
	t.Helper()
	task, err := e.Create(TaskInput{Title: title})
	require.NoError(t, err)
	return task
}

func (e *testEnv) mustSubtask(t *testing.T, parentID, title string) *model.Task {
	t.Helper()
	task, err := e.AddSubtask(parentID, TaskInput{Title: title})
	require.NoError(t, err)
	return task
}

func (e *testEnv) defaultGroup(t *testing.T) model.Group {
	t.Helper()
	groups := e.Groups()
	require.NotEmpty(t, groups)
	return groups[0]
}

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
