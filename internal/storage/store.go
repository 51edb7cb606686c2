// Package storage is the persistence adapter behind the task engine.
//
// Every logical collection is one JSON blob under a fixed key. Loads never
// fail: missing or malformed data yields an empty collection or the default
// settings. Saves report success as a boolean and log the reason on failure,
// leaving the caller's in-memory state untouched.
package storage

import (
	"encoding/json"
	"log/slog"

	"github.com/dori/grove/internal/model"
)

// Storage keys
const (
	KeyTasks       = "grove_tasks"
	KeySettings    = "grove_settings"
	KeyCollapse    = "grove_collapse"
	KeyGroups      = "grove_groups"
	KeyActiveGroup = "grove_activeGroup"
)

// AllKeys lists every key the adapter owns
var AllKeys = []string{KeyTasks, KeySettings, KeyCollapse, KeyGroups, KeyActiveGroup}

// DefaultQuota mirrors the usual browser local-storage budget
const DefaultQuota = 5 << 20

// Store reads and writes the logical collections through a Backend
type Store struct {
	backend Backend
	quota   int
	log     *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithQuota limits the size of a single saved blob. Zero disables the limit.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

// WithLogger sets the logger used for load/save diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Store over backend
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		quota:   DefaultQuota,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadCollection returns the records under key, or an empty slice when the
// key is missing, unreadable, or not a JSON array of T.
func loadCollection[T any](s *Store, key string) []T {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		s.log.Error("failed to load collection", "key", key, "error", err)
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.log.Warn("invalid collection data, using empty", "key", key, "error", err)
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

// saveCollection stores records under key and reports success
func saveCollection[T any](s *Store, key string, records []T) bool {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		s.log.Error("failed to encode collection", "key", key, "error", err)
		return false
	}
	return s.write(key, data)
}

func (s *Store) write(key string, data []byte) bool {
	if s.quota > 0 && len(data) > s.quota {
		s.log.Error("storage quota exceeded", "key", key, "size", len(data), "quota", s.quota)
		return false
	}
	if err := s.backend.Set(key, string(data)); err != nil {
		s.log.Error("failed to save", "key", key, "error", err)
		return false
	}
	return true
}

// LoadTasks returns the stored tasks
func (s *Store) LoadTasks() []model.Task {
	return loadCollection[model.Task](s, KeyTasks)
}

// SaveTasks replaces the stored tasks
func (s *Store) SaveTasks(tasks []model.Task) bool {
	return saveCollection(s, KeyTasks, tasks)
}

// LoadGroups returns the stored groups
func (s *Store) LoadGroups() []model.Group {
	return loadCollection[model.Group](s, KeyGroups)
}

// SaveGroups replaces the stored groups
func (s *Store) SaveGroups(groups []model.Group) bool {
	return saveCollection(s, KeyGroups, groups)
}

// LoadActiveGroup returns the stored active group id, or "" if none
func (s *Store) LoadActiveGroup() string {
	raw, ok, err := s.backend.Get(KeyActiveGroup)
	if err != nil {
		s.log.Error("failed to load active group", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return raw
}

// SaveActiveGroup stores the active group id. An empty id removes the key.
func (s *Store) SaveActiveGroup(id string) bool {
	if id == "" {
		if err := s.backend.Delete(KeyActiveGroup); err != nil {
			s.log.Error("failed to clear active group", "error", err)
			return false
		}
		return true
	}
	return s.write(KeyActiveGroup, []byte(id))
}

// LoadCollapseState returns the task id -> expanded map used by the UI
func (s *Store) LoadCollapseState() map[string]bool {
	state := map[string]bool{}
	raw, ok, err := s.backend.Get(KeyCollapse)
	if err != nil {
		s.log.Error("failed to load collapse state", "error", err)
		return state
	}
	if !ok || raw == "" {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil || state == nil {
		s.log.Warn("invalid collapse state, using empty", "error", err)
		return map[string]bool{}
	}
	return state
}

// SaveCollapseState replaces the collapse map
func (s *Store) SaveCollapseState(state map[string]bool) bool {
	if state == nil {
		state = map[string]bool{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		s.log.Error("failed to encode collapse state", "error", err)
		return false
	}
	return s.write(KeyCollapse, data)
}

// ClearAll removes every key owned by the adapter. On a BatchDeleter either
// all keys go or none do.
func (s *Store) ClearAll() bool {
	if bd, isBatch := s.backend.(BatchDeleter); isBatch {
		if err := bd.DeleteMany(AllKeys...); err != nil {
			s.log.Error("failed to clear storage", "error", err)
			return false
		}
		return true
	}

	ok := true
	for _, key := range AllKeys {
		if err := s.backend.Delete(key); err != nil {
			s.log.Error("failed to clear key", "key", key, "error", err)
			ok = false
		}
	}
	return ok
}
