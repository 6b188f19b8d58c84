package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"
)

func TestStore_ExportCSV(t *testing.T) {
	store := NewStore(NewMemoryKV())
	ctx := context.Background()

	if err := store.SaveDocument(ctx, testDocument("doc-1")); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	if err := store.SaveTodo(ctx, TodoItem{ID: "todo-1", Content: "water plants", Status: StatusPending, Priority: PriorityLow}); err != nil {
		t.Fatalf("SaveTodo() error = %v", err)
	}
	if err := store.SaveSession(ctx, PomodoroSession{ID: "s-1", Label: "writing", DurationSeconds: 1500, CompletedAt: time.Now()}); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	var buf bytes.Buffer
	if err := store.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse exported CSV: %v", err)
	}

	// Header + one row per record.
	if len(rows) != 4 {
		t.Fatalf("ExportCSV() rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "kind" {
		t.Errorf("header[0] = %q, want %q", rows[0][0], "kind")
	}
	kinds := []string{rows[1][0], rows[2][0], rows[3][0]}
	want := []string{"document", "todo", "session"}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("row %d kind = %q, want %q", i+1, kinds[i], want[i])
		}
	}
	// Tags flatten into one cell.
	if rows[1][4] != "work;q1;work" {
		t.Errorf("document tags cell = %q, want %q", rows[1][4], "work;q1;work")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	got := ExportFilename(now)
	want := "focusdeck-backup-2026-08-30.csv"
	if got != want {
		t.Errorf("ExportFilename() = %q, want %q", got, want)
	}
}
