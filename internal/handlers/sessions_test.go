package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"focusdeck/internal/storage"
)

func TestSessionHandler_CreateAndList(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	h := NewSessionHandler(store)

	for _, body := range []string{
		`{"label":"deep work","duration_seconds":1500}`,
		`{"label":"review","duration_seconds":300}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Create(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create session status = %d, want %d (%s)", w.Code, http.StatusCreated, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list sessions status = %d, want %d", w.Code, http.StatusOK)
	}
	var payload SessionListPayload
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if payload.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", payload.TotalCount)
	}
	if payload.TotalSeconds != 1800 {
		t.Errorf("TotalSeconds = %d, want 1800", payload.TotalSeconds)
	}
	if len(payload.Sessions) != 2 || payload.Sessions[0].Label != "deep work" {
		t.Errorf("sessions = %+v", payload.Sessions)
	}
}

func TestSessionHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero duration", body: `{"label":"x","duration_seconds":0}`},
		{name: "negative duration", body: `{"label":"x","duration_seconds":-5}`},
		{name: "invalid JSON", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSessionHandler(storage.NewStore(storage.NewMemoryKV()))

			req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("create status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
