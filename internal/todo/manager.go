// Package todo is the task domain engine: the in-memory task and group model
// with its mutation, query, hierarchy, recurrence and statistics operations.
//
// Tasks live in one flat map keyed by id. Parent and child links are plain id
// references resolved through that map. Every exported Manager method holds
// the manager's mutex for its whole duration, and every logical mutation
// persists each touched collection exactly once.
package todo

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrInvalid is wrapped by *ValidationError
	ErrInvalid = errors.New("invalid input")
	// ErrCircular is returned when a parent link would create a cycle
	ErrCircular = errors.New("circular subtask reference")
	// ErrLastGroup is returned when deleting the only group
	ErrLastGroup = errors.New("cannot delete the last group")
	// ErrPersist means the in-memory change happened but saving it failed
	ErrPersist = errors.New("failed to persist")
)

// DefaultGroupName names the group created when none exist
const DefaultGroupName = "Main"

// Persister is the storage contract the engine relies on.
// Loads never fail; saves report success.
type Persister interface {
	LoadTasks() []model.Task
	SaveTasks([]model.Task) bool
	LoadGroups() []model.Group
	SaveGroups([]model.Group) bool
	LoadActiveGroup() string
	SaveActiveGroup(string) bool
}

// Manager owns the task list, the group list and the active-group pointer
type Manager struct {
	mu sync.Mutex

	store  Persister
	log    *slog.Logger
	now    func() time.Time
	newID  func() string
	defGrp string

	tasks       map[string]*model.Task
	order       []string
	groups      []model.Group
	activeGroup string
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithDefaultGroupName sets the name of the group created on first start
func WithDefaultGroupName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.defGrp = name
		}
	}
}

// WithIDGenerator replaces the id generator
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// New creates an empty manager. Call Init to load persisted state.
func New(store Persister, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		log:    slog.Default(),
		now:    time.Now,
		newID:  NewID,
		defGrp: DefaultGroupName,
		tasks:  make(map[string]*model.Task),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewID returns a time-ordered unique id (UUIDv7: millisecond timestamp plus
// random bits).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Init loads tasks, groups and the active group, creating the default group
// when none exist and repairing an active pointer that no longer resolves.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = make(map[string]*model.Task)
	m.order = m.order[:0]
	for _, t := range m.store.LoadTasks() {
		if t.ID == "" {
			m.log.Warn("skipping stored task without id", "title", t.Title)
			continue
		}
		if _, dup := m.tasks[t.ID]; dup {
			m.log.Warn("skipping duplicate stored task", "id", t.ID)
			continue
		}
		t := t.Clone()
		normalize(&t)
		m.tasks[t.ID] = &t
		m.order = append(m.order, t.ID)
	}
	m.groups = m.store.LoadGroups()
	m.activeGroup = m.store.LoadActiveGroup()

	var errs []error
	if len(m.groups) == 0 {
		if _, err := m.createGroup(m.defGrp); err != nil {
			errs = append(errs, err)
		}
	}

	if m.activeGroup == "" || (m.activeGroup != model.AllGroups && m.groupIndex(m.activeGroup) == -1) {
		m.activeGroup = ""
		if len(m.groups) > 0 {
			m.activeGroup = m.groups[0].ID
		}
		errs = append(errs, m.saveActive())
	}

	m.log.Debug("engine initialised", "tasks", len(m.order), "groups", len(m.groups), "active", m.activeGroup)
	return errors.Join(errs...)
}

// Save forces a persist of the current task list
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveTasks()
}

func normalize(t *model.Task) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.SubtaskIDs == nil {
		t.SubtaskIDs = []string{}
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
}

func (m *Manager) snapshot() []model.Task {
	out := make([]model.Task, 0, len(m.order))
	for _, id := range m.order {
		if t, ok := m.tasks[id]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (m *Manager) saveTasks() error {
	if !m.store.SaveTasks(m.snapshot()) {
		return fmt.Errorf("%w: tasks", ErrPersist)
	}
	return nil
}

func (m *Manager) saveGroups() error {
	if !m.store.SaveGroups(append([]model.Group(nil), m.groups...)) {
		return fmt.Errorf("%w: groups", ErrPersist)
	}
	return nil
}

func (m *Manager) saveActive() error {
	if !m.store.SaveActiveGroup(m.activeGroup) {
		return fmt.Errorf("%w: active group", ErrPersist)
	}
	return nil
}

func (m *Manager) notFound(op, kind, id string) error {
	m.log.Debug(kind+" not found", "op", op, "id", id)
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func copyTask(t *model.Task) *model.Task {
	c := t.Clone()
	return &c
}
