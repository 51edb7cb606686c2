package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB is the SQLite key/value store behind the sqlite backend.
type DB struct {
	*sql.DB
	schema int64
}

// DefaultDataDir is where grove keeps its database, settings and log.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".grove"
	}
	return filepath.Join(home, ".local", "share", "grove")
}

type options struct {
	log *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger reports applied migrations to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func dsn(path string) string {
	return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}

// Open creates the parent directory if needed, connects and brings the kv
// schema up to date.
func Open(path string, opts ...Option) (*DB, error) {
	o := options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB}
	if err := db.upgrade(context.Background(), o.log); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// upgrade applies pending embedded migrations. The goose provider is used
// instead of the package-level API so nothing is printed to the terminal.
func (db *DB) upgrade(ctx context.Context, log *slog.Logger) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		log.Info("applied migration", "version", r.Source.Version, "took", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	db.schema = version
	return nil
}

// SchemaVersion is the newest migration applied at Open.
func (db *DB) SchemaVersion() int64 {
	return db.schema
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction commits when fn returns nil and rolls back otherwise.
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
