package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Backend is a raw key-value store of string blobs.
// *db.DB satisfies it with a SQLite table; FileBackend with one file per key.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// BatchDeleter is implemented by backends that can remove several keys in
// one atomic step. ClearAll prefers it over deleting key by key.
type BatchDeleter interface {
	DeleteMany(keys ...string) error
}

// FileBackend stores each key as <dir>/<key>.json on an afero filesystem
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend creates a file backend rooted at dir, creating it if needed
func NewFileBackend(fsys afero.Fs, dir string) (*FileBackend, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileBackend{fs: fsys, dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get reads the blob stored under key
func (b *FileBackend) Get(key string) (string, bool, error) {
	data, err := afero.ReadFile(b.fs, b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set writes the blob through a temp file so readers never see a partial value
func (b *FileBackend) Set(key, value string) error {
	target := b.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(b.fs, tmp, []byte(value), 0o644); err != nil {
		return err
	}
	if err := b.fs.Rename(tmp, target); err != nil {
		_ = b.fs.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes key; a missing key is not an error
func (b *FileBackend) Delete(key string) error {
	err := b.fs.Remove(b.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
