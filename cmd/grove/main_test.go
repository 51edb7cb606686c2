package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/grove/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Setenv("GROVE_NOTIFICATIONS", "false")
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--data-dir", filepath.Join(c.dir, "data"),
		"--config", filepath.Join(c.dir, "none.yaml"),
		"--env-file", filepath.Join(c.dir, "none.env"),
		"--backend", "file",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// idOf pulls the short id from an "Added <id> ..." line
func idOf(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, out)
	return fields[1]
}

func listJSON(t *testing.T, c *cli, args ...string) []model.Task {
	t.Helper()
	var tasks []model.Task
	require.NoError(t, json.Unmarshal([]byte(c.must(append([]string{"list", "--json"}, args...)...)), &tasks))
	return tasks
}

func TestAddListDone(t *testing.T) {
	c := newCLI(t)

	id := idOf(t, c.must("add", "Pay", "rent", "@home", "!high", "due:2030-01-05"))
	sub := idOf(t, c.must("subtask", id, "Find", "cheque", "book"))

	tasks := listJSON(t, c)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Pay rent", tasks[0].Title)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, []string{"home"}, tasks[0].Tags)
	assert.Equal(t, "Find cheque book", tasks[1].Title)
	assert.True(t, strings.HasSuffix(tasks[1].ID, sub))

	out := c.must("list")
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "0/1")

	out = c.must("done", id)
	assert.Contains(t, out, "1 subtask(s) left open")

	c.must("done", id)
	out = c.must("done", id, "--subtasks")
	assert.Contains(t, out, "Completed Pay rent")
	for _, task := range listJSON(t, c) {
		assert.True(t, task.Completed, task.Title)
	}

	assert.Empty(t, listJSON(t, c, "--hide-done"))
}

func TestDoneRecurring(t *testing.T) {
	c := newCLI(t)
	id := idOf(t, c.must("add", "Standup", "every:day", "due:2030-01-07"))

	out := c.must("done", id)
	assert.Contains(t, out, "due 2030-01-08")
	assert.Len(t, listJSON(t, c), 2)
}

func TestEditAndDelete(t *testing.T) {
	c := newCLI(t)
	a := idOf(t, c.must("add", "Parent"))
	b := idOf(t, c.must("add", "Child"))

	c.must("edit", b, "--parent", a, "--priority", "low", "--tags", "x,y")
	tasks := listJSON(t, c)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Parent", tasks[0].Title)
	assert.Equal(t, "Child", tasks[1].Title)
	assert.NotEmpty(t, tasks[1].ParentID)
	assert.Equal(t, model.PriorityLow, tasks[1].Priority)

	_, err := c.run("edit", a, "--parent", b)
	assert.Error(t, err, "cycle rejected")

	out := c.must("delete", a)
	assert.Contains(t, out, "Deleted 2 task(s)")
	assert.Empty(t, listJSON(t, c))

	_, err = c.run("delete", "nope")
	assert.Error(t, err)
}

func TestGroups(t *testing.T) {
	c := newCLI(t)

	c.must("groups", "add", "Work")
	c.must("add", "--group", "work", "Slides")
	c.must("add", "Groceries")

	assert.Len(t, listJSON(t, c), 1)
	assert.Len(t, listJSON(t, c, "--all"), 2)

	c.must("groups", "use", "Work")
	tasks := listJSON(t, c)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Slides", tasks[0].Title)

	c.must("groups", "rename", "Work", "Office")
	out := c.must("groups")
	assert.Contains(t, out, "Office")

	out = c.must("groups", "delete", "Office")
	assert.Contains(t, out, "1 task(s)")
	assert.Len(t, listJSON(t, c, "--all"), 1)

	_, err := c.run("groups", "delete", "Main")
	assert.Error(t, err, "last group cannot be deleted")
}

func TestTags(t *testing.T) {
	c := newCLI(t)
	c.must("add", "One", "@old")
	c.must("add", "Two", "@old", "@keep")

	out := c.must("tags", "rename", "old", "new")
	assert.Contains(t, out, "on 2 task(s)")
	assert.Len(t, listJSON(t, c, "--tag", "new"), 2)

	out = c.must("tags", "delete", "keep")
	assert.Contains(t, out, "from 1 task(s)")

	out = c.must("tags")
	assert.Contains(t, out, "new")
	assert.NotContains(t, out, "keep")
	assert.NotContains(t, out, "old")
}

func TestExportAndClear(t *testing.T) {
	c := newCLI(t)
	c.must("add", "Keep", "me")

	out := c.must("export", "--format", "yaml")
	assert.Contains(t, out, "title: Keep me")

	_, err := c.run("clear")
	assert.Error(t, err)

	c.must("clear", "--yes")
	assert.Empty(t, listJSON(t, c))
}

func TestStatsAndVersion(t *testing.T) {
	c := newCLI(t)
	c.must("add", "A", "!high")
	out := c.must("stats")
	assert.Contains(t, out, "High priority")
	assert.Contains(t, c.must("version"), "grove v")
	assert.Contains(t, c.must("sweep"), "No occurrences due")
}
