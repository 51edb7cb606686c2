package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dori/grove/internal/model"
	"github.com/dori/grove/internal/todo"
)

// shortIDLen characters from the end of a v7 uuid; the leading ones are
// a timestamp and collide for tasks created close together
const shortIDLen = 8

var errAmbiguous = errors.New("ambiguous reference")

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[len(id)-shortIDLen:]
}

// findTask accepts a full id or a unique id suffix
func findTask(m *todo.Manager, ref string) (*model.Task, error) {
	ref = strings.TrimSpace(ref)
	if t, err := m.Get(ref); err == nil {
		return t, nil
	}
	if ref == "" {
		return nil, fmt.Errorf("task %q: %w", ref, todo.ErrNotFound)
	}

	var match *model.Task
	for _, t := range m.All() {
		if strings.HasSuffix(t.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("task %q: %w", ref, errAmbiguous)
			}
			match = &t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("task %q: %w", ref, todo.ErrNotFound)
	}
	return match, nil
}

// findGroup accepts an id or a case-insensitive name
func findGroup(m *todo.Manager, ref string) (*model.Group, error) {
	if g, err := m.Group(ref); err == nil {
		return g, nil
	}

	var match *model.Group
	for _, g := range m.Groups() {
		if strings.EqualFold(g.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("group %q: %w", ref, errAmbiguous)
			}
			match = &g
		}
	}
	if match == nil {
		return nil, fmt.Errorf("group %q: %w", ref, todo.ErrNotFound)
	}
	return match, nil
}
