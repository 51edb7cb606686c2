package storage

import (
	"encoding/json"
	"strings"
)

// MigrateLegacy folds the old single "category" field into tags, for both the
// settings blob and every stored task. It is safe to run on every start.
// It reports whether anything was rewritten.
func (s *Store) MigrateLegacy() bool {
	migrated := false

	if raw, ok, err := s.backend.Get(KeySettings); err == nil && ok && raw != "" {
		out, changed, err := MigrateSettingsJSON([]byte(raw))
		switch {
		case err != nil:
			s.log.Warn("settings migration skipped", "error", err)
		case changed:
			if s.write(KeySettings, out) {
				s.log.Info("migrated legacy categories in settings")
				migrated = true
			}
		}
	}

	if raw, ok, err := s.backend.Get(KeyTasks); err == nil && ok && raw != "" {
		out, changed, err := MigrateTasksJSON([]byte(raw))
		switch {
		case err != nil:
			s.log.Warn("task migration skipped", "error", err)
		case changed:
			if s.write(KeyTasks, out) {
				s.log.Info("migrated legacy task categories")
				migrated = true
			}
		}
	}

	return migrated
}

// MigrateSettingsJSON moves "categories" into "tags" and
// "filters.selectedCategory" into "filters.selectedTags", skipping values
// already present. Unknown fields are preserved.
func MigrateSettingsJSON(raw []byte) ([]byte, bool, error) {
	var settings map[string]any
	if err := json.Unmarshal(raw, &settings); err != nil {
		return raw, false, err
	}
	if settings == nil {
		return raw, false, nil
	}

	changed := false

	if cats, ok := settings["categories"].([]any); ok {
		tags := stringList(settings["tags"])
		for _, c := range cats {
			if name, ok := c.(string); ok {
				tags = appendUnique(tags, name)
			}
		}
		settings["tags"] = tags
		delete(settings, "categories")
		changed = true
	}

	if filters, ok := settings["filters"].(map[string]any); ok {
		if _, present := filters["selectedCategory"]; present {
			selected := stringList(filters["selectedTags"])
			if cat, ok := filters["selectedCategory"].(string); ok && cat != "" {
				selected = appendUnique(selected, cat)
			}
			filters["selectedTags"] = selected
			delete(filters, "selectedCategory")
			changed = true
		}
	}

	if !changed {
		return raw, false, nil
	}
	out, err := json.Marshal(settings)
	if err != nil {
		return raw, false, err
	}
	return out, true, nil
}

// MigrateTasksJSON moves each task's non-blank "category" into its tags and
// drops the field, blank or not.
func MigrateTasksJSON(raw []byte) ([]byte, bool, error) {
	var tasks []map[string]any
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return raw, false, err
	}

	changed := false
	for _, task := range tasks {
		value, present := task["category"]
		if !present {
			continue
		}
		if cat, ok := value.(string); ok && strings.TrimSpace(cat) != "" {
			task["tags"] = appendUnique(stringList(task["tags"]), cat)
		}
		delete(task, "category")
		changed = true
	}

	if !changed {
		return raw, false, nil
	}
	out, err := json.Marshal(tasks)
	if err != nil {
		return raw, false, err
	}
	return out, true, nil
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
