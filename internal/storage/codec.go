package storage

import (
	"encoding/json"
	"time"
)

// Serialized record shapes for the persisted blob. Dates travel as
// RFC 3339 strings so the blob stays a plain JSON document; they are
// reconstituted to time.Time on read.

type documentRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type todoRecord struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type sessionRecord struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	DurationSeconds int    `json:"durationSeconds"`
	CompletedAt     string `json:"completedAt"`
}

// blob is the full persisted record set, stored as one JSON value under
// a single storage key.
type blob struct {
	Documents []documentRecord `json:"documents"`
	Todos     []todoRecord     `json:"todos"`
	Sessions  []sessionRecord  `json:"sessions"`
}

func encodeBlob(b *blob) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeBlob parses the stored blob. A corrupt or unparsable value is
// treated as an empty store rather than an error, so a bad blob can
// never take the application down.
func decodeBlob(raw string) *blob {
	var b blob
	if raw == "" {
		return &b
	}
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return &blob{}
	}
	return &b
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// decodeTime parses an RFC 3339 timestamp, falling back to the zero
// time when the stored value is missing or malformed.
func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func documentToRecord(d Document) documentRecord {
	return documentRecord{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		CreatedAt: encodeTime(d.CreatedAt),
		UpdatedAt: encodeTime(d.UpdatedAt),
	}
}

func recordToDocument(r documentRecord) Document {
	return Document{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      r.Tags,
		CreatedAt: decodeTime(r.CreatedAt),
		UpdatedAt: decodeTime(r.UpdatedAt),
	}
}

func todoToRecord(t TodoItem) todoRecord {
	return todoRecord{
		ID:        t.ID,
		Content:   t.Content,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: encodeTime(t.CreatedAt),
		UpdatedAt: encodeTime(t.UpdatedAt),
	}
}

// recordToTodo reconstitutes a todo, normalizing unknown enum values to
// their defaults instead of trusting the stored shape.
func recordToTodo(r todoRecord) TodoItem {
	status := TodoStatus(r.Status)
	if !status.Valid() {
		status = StatusPending
	}
	priority := TodoPriority(r.Priority)
	if !priority.Valid() {
		priority = PriorityMedium
	}
	return TodoItem{
		ID:        r.ID,
		Content:   r.Content,
		Status:    status,
		Priority:  priority,
		CreatedAt: decodeTime(r.CreatedAt),
		UpdatedAt: decodeTime(r.UpdatedAt),
	}
}

func sessionToRecord(s PomodoroSession) sessionRecord {
	return sessionRecord{
		ID:              s.ID,
		Label:           s.Label,
		DurationSeconds: s.DurationSeconds,
		CompletedAt:     encodeTime(s.CompletedAt),
	}
}

func recordToSession(r sessionRecord) PomodoroSession {
	return PomodoroSession{
		ID:              r.ID,
		Label:           r.Label,
		DurationSeconds: r.DurationSeconds,
		CompletedAt:     decodeTime(r.CompletedAt),
	}
}
