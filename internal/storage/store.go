package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the storage key holding the full record set.
const DefaultKey = "focusdeck-storage"

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyID is returned when a record is saved without an ID.
	ErrEmptyID = errors.New("record id must not be empty")
)

// Store persists documents, todos and pomodoro sessions as one JSON
// blob under a single key of the backing KV.
//
// Every mutation re-reads the blob, applies the change and writes the
// whole blob back. Two overlapping writers can therefore lose an
// update (last writer wins); the application runs single-writer and
// accepts this.
type Store struct {
	kv  KV
	key string
}

// NewStore creates a Store on the given KV using DefaultKey.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, key: DefaultKey}
}

// NewStoreWithKey creates a Store bound to a custom storage key.
func NewStoreWithKey(kv KV, key string) *Store {
	return &Store{kv: kv, key: key}
}

// load reads and decodes the current blob. A missing key yields an
// empty blob; so does a corrupt one (see decodeBlob).
func (s *Store) load(ctx context.Context) (*blob, error) {
	raw, ok, err := s.kv.Read(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if !ok {
		return &blob{}, nil
	}
	return decodeBlob(raw), nil
}

func (s *Store) save(ctx context.Context, b *blob) error {
	raw, err := encodeBlob(b)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := s.kv.Write(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// SaveDocument inserts doc, or replaces the stored record with the
// same ID if one exists.
func (s *Store) SaveDocument(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return ErrEmptyID
	}
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	rec := documentToRecord(doc)
	replaced := false
	for i := range b.Documents {
		if b.Documents[i].ID == doc.ID {
			b.Documents[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		b.Documents = append(b.Documents, rec)
	}
	return s.save(ctx, b)
}

// GetDocument returns the document with the given ID, or ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	b, err := s.load(ctx)
	if err != nil {
		return Document{}, err
	}
	for _, rec := range b.Documents {
		if rec.ID == id {
			return recordToDocument(rec), nil
		}
	}
	return Document{}, ErrNotFound
}

// GetAllDocuments returns every stored document in insertion order.
func (s *Store) GetAllDocuments(ctx context.Context) ([]Document, error) {
	b, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(b.Documents))
	for _, rec := range b.Documents {
		docs = append(docs, recordToDocument(rec))
	}
	return docs, nil
}

// DeleteDocument removes the document with the given ID. Deleting an
// absent ID is a no-op, not an error.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := b.Documents[:0]
	for _, rec := range b.Documents {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	b.Documents = kept
	return s.save(ctx, b)
}

// SearchDocuments returns documents whose title, content or any tag
// contains query, case-insensitively, in stored order. An empty query
// matches everything.
func (s *Store) SearchDocuments(ctx context.Context, query string) ([]Document, error) {
	b, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	matches := make([]Document, 0, len(b.Documents))
	for _, rec := range b.Documents {
		if documentMatches(rec, needle) {
			matches = append(matches, recordToDocument(rec))
		}
	}
	return matches, nil
}

func documentMatches(rec documentRecord, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Content), needle) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// SaveTodo inserts todo, or replaces the stored record with the same
// ID if one exists.
func (s *Store) SaveTodo(ctx context.Context, todo TodoItem) error {
	if todo.ID == "" {
		return ErrEmptyID
	}
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	rec := todoToRecord(todo)
	replaced := false
	for i := range b.Todos {
		if b.Todos[i].ID == todo.ID {
			b.Todos[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		b.Todos = append(b.Todos, rec)
	}
	return s.save(ctx, b)
}

// GetTodo returns the todo with the given ID, or ErrNotFound.
func (s *Store) GetTodo(ctx context.Context, id string) (TodoItem, error) {
	b, err := s.load(ctx)
	if err != nil {
		return TodoItem{}, err
	}
	for _, rec := range b.Todos {
		if rec.ID == id {
			return recordToTodo(rec), nil
		}
	}
	return TodoItem{}, ErrNotFound
}

// GetAllTodos returns every stored todo in insertion order.
func (s *Store) GetAllTodos(ctx context.Context) ([]TodoItem, error) {
	b, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	todos := make([]TodoItem, 0, len(b.Todos))
	for _, rec := range b.Todos {
		todos = append(todos, recordToTodo(rec))
	}
	return todos, nil
}

// UpdateTodo is save-with-overwrite: it behaves exactly like SaveTodo.
func (s *Store) UpdateTodo(ctx context.Context, todo TodoItem) error {
	return s.SaveTodo(ctx, todo)
}

// DeleteTodo removes the todo with the given ID. Deleting an absent ID
// is a no-op, not an error.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := b.Todos[:0]
	for _, rec := range b.Todos {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	b.Todos = kept
	return s.save(ctx, b)
}

// SaveSession appends a completed pomodoro session to the log.
func (s *Store) SaveSession(ctx context.Context, session PomodoroSession) error {
	if session.ID == "" {
		return ErrEmptyID
	}
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	b.Sessions = append(b.Sessions, sessionToRecord(session))
	return s.save(ctx, b)
}

// GetAllSessions returns every logged session in insertion order.
func (s *Store) GetAllSessions(ctx context.Context) ([]PomodoroSession, error) {
	b, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]PomodoroSession, 0, len(b.Sessions))
	for _, rec := range b.Sessions {
		sessions = append(sessions, recordToSession(rec))
	}
	return sessions, nil
}
