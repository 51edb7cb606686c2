package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dori/grove/internal/config"
	"github.com/dori/grove/internal/db"
	"github.com/dori/grove/internal/model"
	"github.com/dori/grove/internal/notify"
	"github.com/dori/grove/internal/storage"
	"github.com/dori/grove/internal/todo"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// ErrLocked is returned when another grove process holds the data dir
var ErrLocked = errors.New("another instance of grove is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB // nil with the file backend
	Store    *storage.Store
	Tasks    *todo.Manager
	Notifier *notify.Notifier
	Log      *slog.Logger
	DataDir  string

	// Settings as loaded at startup; update through SaveSettings
	Settings model.Settings
	// Generated holds the occurrences created by the startup sweep
	Generated []model.Task

	lockFile *flock.Flock
	logFile  *os.File
}

// New opens the data dir, takes the instance lock, selects the storage
// backend and runs the startup sequence.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.Load(config.Options{}); err != nil {
			return nil, err
		}
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(),
	}
	app.Notifier.SetEnabled(cfg.Notifications)

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	if err := app.openLog(); err != nil {
		app.Close()
		return nil, err
	}

	backend, err := app.openBackend()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = storage.New(backend, storage.WithQuota(cfg.QuotaBytes), storage.WithLogger(app.Log))
	app.Tasks = todo.New(app.Store,
		todo.WithLogger(app.Log),
		todo.WithDefaultGroupName(cfg.DefaultGroupName),
	)

	if err := app.start(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) openLog() error {
	f, err := os.OpenFile(a.Config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f
	a.Log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: a.Config.Level()}))
	return nil
}

func (a *App) openBackend() (storage.Backend, error) {
	switch a.Config.Backend {
	case config.BackendFile:
		b, err := storage.NewFileBackend(afero.NewOsFs(), filepath.Join(a.DataDir, "data"))
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return b, nil
	default:
		database, err := db.Open(a.Config.DBPath(), db.WithLogger(a.Log))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.DB = database
		a.Log.Debug("opened database", "path", a.Config.DBPath(), "schema", database.SchemaVersion())
		return database, nil
	}
}

// start migrates legacy data, loads the engine and runs the recurrence sweep.
// Persistence failures are logged; only a failed load aborts.
func (a *App) start() error {
	if a.Store.MigrateLegacy() {
		a.Log.Info("migrated legacy categories to tags")
	}
	a.Settings = a.Store.LoadSettings()
	if a.Config.Theme != "" {
		a.Settings.Theme = a.Config.Theme
	}

	if err := a.Tasks.Init(); err != nil {
		if !errors.Is(err, todo.ErrPersist) {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		a.Log.Warn("startup state not saved", "error", err)
	}

	generated, err := a.Tasks.CheckScheduledRecurrences()
	if err != nil {
		a.Log.Warn("recurrence sweep not saved", "error", err)
	}
	a.Generated = generated

	if err := a.Notifier.SendRecurrenceGenerated(generated); err != nil {
		a.Log.Debug("notification failed", "error", err)
	}
	if err := a.Notifier.SendOverdueSummary(a.Overdue()); err != nil {
		a.Log.Debug("notification failed", "error", err)
	}
	return nil
}

// Overdue returns incomplete tasks whose due day has passed
func (a *App) Overdue() []model.Task {
	var out []model.Task
	for _, t := range a.Tasks.All() {
		if !t.Completed && a.Tasks.DueDateStatus(t.DueDate) == model.DueOverdue {
			out = append(out, t)
		}
	}
	return out
}

// SaveSettings persists settings and keeps the in-memory copy in sync
func (a *App) SaveSettings(s model.Settings) bool {
	a.Settings = s
	return a.Store.SaveSettings(s)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "grove.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrLocked
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log: %w", err))
		}
	}

	a.releaseLock()

	return errors.Join(errs...)
}
