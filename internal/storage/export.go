package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ExportCSV writes every stored record to w as CSV, one section per
// entity kind, for user-facing backup. The layout is a flat table with
// a leading "kind" column so a single file holds all three kinds.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	b, err := s.load(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"kind", "id", "title", "content", "tags", "status", "priority", "duration_seconds", "created_at", "updated_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, rec := range b.Documents {
		row := []string{"document", rec.ID, rec.Title, rec.Content, strings.Join(rec.Tags, ";"), "", "", "", rec.CreatedAt, rec.UpdatedAt}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write document row: %w", err)
		}
	}
	for _, rec := range b.Todos {
		row := []string{"todo", rec.ID, "", rec.Content, "", rec.Status, rec.Priority, "", rec.CreatedAt, rec.UpdatedAt}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write todo row: %w", err)
		}
	}
	for _, rec := range b.Sessions {
		row := []string{"session", rec.ID, rec.Label, "", "", "", "", strconv.Itoa(rec.DurationSeconds), rec.CompletedAt, ""}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write session row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// ExportFilename suggests a timestamped name for a backup download.
func ExportFilename(now time.Time) string {
	return "focusdeck-backup-" + now.UTC().Format("2006-01-02") + ".csv"
}
