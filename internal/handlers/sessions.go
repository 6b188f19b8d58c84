package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"focusdeck/internal/contextutil"
	"focusdeck/internal/storage"
)

// SessionHandler serves the pomodoro session log.
type SessionHandler struct {
	store *storage.Store
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store *storage.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// SessionPayload is the JSON shape for a completed focus session.
type SessionPayload struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	DurationSeconds int    `json:"duration_seconds"`
	CompletedAt     string `json:"completed_at"`
}

// SessionListPayload wraps the log with aggregate stats.
type SessionListPayload struct {
	Sessions     []SessionPayload `json:"sessions"`
	TotalCount   int              `json:"total_count"`
	TotalSeconds int              `json:"total_seconds"`
}

// createSessionRequest is the POST body recording a finished interval.
type createSessionRequest struct {
	Label           string `json:"label"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Create records one completed pomodoro.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DurationSeconds <= 0 {
		writeError(w, http.StatusBadRequest, "Duration must be positive")
		return
	}

	session := storage.PomodoroSession{
		ID:              uuid.New().String(),
		Label:           req.Label,
		DurationSeconds: req.DurationSeconds,
		CompletedAt:     time.Now(),
	}

	if err := h.store.SaveSession(ctx, session); err != nil {
		logger.ErrorContext(ctx, "failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusCreated, SessionPayload{
		ID:              session.ID,
		Label:           session.Label,
		DurationSeconds: session.DurationSeconds,
		CompletedAt:     session.CompletedAt.UTC().Format(time.RFC3339Nano),
	})
}

// List returns the session log with totals.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sessions, err := h.store.GetAllSessions(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	payload := SessionListPayload{Sessions: []SessionPayload{}}
	for _, session := range sessions {
		payload.Sessions = append(payload.Sessions, SessionPayload{
			ID:              session.ID,
			Label:           session.Label,
			DurationSeconds: session.DurationSeconds,
			CompletedAt:     session.CompletedAt.UTC().Format(time.RFC3339Nano),
		})
		payload.TotalSeconds += session.DurationSeconds
	}
	payload.TotalCount = len(sessions)

	writeJSON(w, http.StatusOK, payload)
}
