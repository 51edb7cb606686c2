package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSettingsCategoriesToTags(t *testing.T) {
	raw := []byte(`{"categories":["x","y"],"theme":"dark"}`)

	once, changed, err := MigrateSettingsJSON(raw)
	require.NoError(t, err)
	require.True(t, changed)

	var got map[string]any
	require.NoError(t, json.Unmarshal(once, &got))
	assert.Equal(t, []any{"x", "y"}, got["tags"])
	assert.NotContains(t, got, "categories")
	assert.Equal(t, "dark", got["theme"])

	twice, changed, err := MigrateSettingsJSON(once)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.JSONEq(t, string(once), string(twice))
}

func TestMigrateSettingsMergesWithExistingTags(t *testing.T) {
	raw := []byte(`{"tags":["y","z"],"categories":["x","y"],"filters":{"selectedCategory":"x","selectedTags":["z"]}}`)

	out, changed, err := MigrateSettingsJSON(raw)
	require.NoError(t, err)
	require.True(t, changed)

	var got struct {
		Tags    []string `json:"tags"`
		Filters struct {
			SelectedTags     []string `json:"selectedTags"`
			SelectedCategory *string  `json:"selectedCategory"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []string{"y", "z", "x"}, got.Tags)
	assert.Equal(t, []string{"z", "x"}, got.Filters.SelectedTags)
	assert.Nil(t, got.Filters.SelectedCategory)
}

func TestMigrateTasksCategory(t *testing.T) {
	raw := []byte(`[
		{"id":"a","category":"work","tags":["home"]},
		{"id":"b","category":"  "},
		{"id":"c","tags":["x"]}
	]`)

	out, changed, err := MigrateTasksJSON(raw)
	require.NoError(t, err)
	require.True(t, changed)

	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(out, &tasks))
	assert.Equal(t, []any{"home", "work"}, tasks[0]["tags"])
	assert.NotContains(t, tasks[0], "category")
	assert.NotContains(t, tasks[1], "category")
	assert.NotContains(t, tasks[1], "tags")

	_, changed, err = MigrateTasksJSON(out)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStoreMigrateLegacyIsIdempotent(t *testing.T) {
	s, backend := newTestStore(t)
	require.NoError(t, backend.Set(KeySettings, `{"categories":["x","y"]}`))
	require.NoError(t, backend.Set(KeyTasks, `[{"id":"a","title":"A","category":"x"}]`))

	assert.True(t, s.MigrateLegacy())
	settings := s.LoadSettings()
	assert.Equal(t, []string{"x", "y"}, settings.Tags)
	tasks := s.LoadTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"x"}, tasks[0].Tags)

	assert.False(t, s.MigrateLegacy())
	assert.Equal(t, settings, s.LoadSettings())
}
