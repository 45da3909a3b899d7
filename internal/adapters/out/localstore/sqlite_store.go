// internal/adapters/out/localstore/sqlite_store.go
package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the local persistent key-value medium: a single sqlite file
// caching cart, wishlist, and session state between runs.
//
// Failure policy (by contract with usecase.LocalStore): read/write failures
// are logged and swallowed; Get reports ok=false and callers fall back to
// their defaults.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// NewSQLiteStore opens (or creates) the store at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("localstore: path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("localstore: init schema: %w", err)
	}
	// One writer at a time; the store is written from synchronous reducer
	// transitions only.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Get returns the raw JSON stored under key.
func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	if s == nil || s.db == nil {
		return nil, false
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		log.Printf("[localstore] get %q failed, returning default: %v", key, err)
		return nil, false
	}
	return []byte(value), true
}

// Set stores raw JSON under key, best-effort.
func (s *SQLiteStore) Set(key string, value []byte) {
	if s == nil || s.db == nil {
		return
	}

	_, err := s.db.Exec(`
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC())
	if err != nil {
		log.Printf("[localstore] set %q failed (state kept in memory): %v", key, err)
	}
}

// Remove deletes key, best-effort.
func (s *SQLiteStore) Remove(key string) {
	if s == nil || s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		log.Printf("[localstore] remove %q failed: %v", key, err)
	}
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
