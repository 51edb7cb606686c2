package todo

import (
	"slices"
	"strings"
)

// TagUsageCount returns how many tasks carry tag
func (m *Manager) TagUsageCount(tag string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if t.HasTag(tag) {
			n++
		}
	}
	return n
}

// UsedTags returns every tag found on a task, in first-seen order
func (m *Manager) UsedTags() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []string{}
	for _, id := range m.order {
		for _, tag := range m.tasks[id].Tags {
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
	}
	return out
}

// RenameTag replaces oldTag with newTag on every task and returns how many
// tasks changed. Tasks already carrying newTag keep a single copy.
func (m *Manager) RenameTag(oldTag, newTag string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	newTag = strings.TrimSpace(newTag)
	if newTag == "" {
		return 0, &ValidationError{Errors: []string{"Tag name is required"}}
	}
	if oldTag == newTag {
		return 0, nil
	}

	return m.retag(oldTag, func(tags []string) []string {
		tags = slices.Clone(tags)
		tags[slices.Index(tags, oldTag)] = newTag
		return cleanTags(tags)
	})
}

// RemoveTag strips tag from every task and returns how many tasks changed
func (m *Manager) RemoveTag(tag string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.retag(tag, func(tags []string) []string {
		return slices.DeleteFunc(slices.Clone(tags), func(t string) bool { return t == tag })
	})
}

func (m *Manager) retag(tag string, edit func([]string) []string) (int, error) {
	now := m.now()
	n := 0
	for _, id := range m.order {
		t := m.tasks[id]
		if !t.HasTag(tag) {
			continue
		}
		t.Tags = edit(t.Tags)
		t.UpdatedAt = now
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, m.saveTasks()
}
