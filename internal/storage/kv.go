package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// KV is the key-value contract the record store depends on. The second
// return value of Read reports whether the key exists at all.
// This interface is defined from the store's perspective (consumer-first).
type KV interface {
	// Read returns the value stored under key, or ok=false if absent.
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key, value string) error
}

// SQLiteKV backs the KV contract with a single SQLite table.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV creates a SQLiteKV on an already-migrated database.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Read returns the value stored under key, or ok=false if absent.
func (s *SQLiteKV) Read(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key, replacing any previous value.
func (s *SQLiteKV) Write(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-memory KV implementation for tests and ephemeral
// runs. Safe for concurrent use.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string

	// ReadErr and WriteErr, when set, are returned by every call.
	// Tests use them to simulate a failing backing store.
	ReadErr  error
	WriteErr error
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Read returns the value stored under key, or ok=false if absent.
func (m *MemoryKV) Read(ctx context.Context, key string) (string, bool, error) {
	if m.ReadErr != nil {
		return "", false, m.ReadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Write stores value under key, replacing any previous value.
func (m *MemoryKV) Write(ctx context.Context, key, value string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
