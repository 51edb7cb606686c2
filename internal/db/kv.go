package db

import (
	"database/sql"
	"errors"
	"time"
)

// Get returns the value stored under key. The boolean is false when the key
// is absent.
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (db *DB) Set(key, value string) error {
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (db *DB) Delete(key string) error {
	_, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// DeleteMany removes all keys in one transaction
func (db *DB) DeleteMany(keys ...string) error {
	return db.Transaction(func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
				return err
			}
		}
		return nil
	})
}
