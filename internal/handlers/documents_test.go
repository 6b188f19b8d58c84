package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"focusdeck/internal/docstate"
	"focusdeck/internal/storage"
)

// newDocumentRouter wires a DocumentHandler into a chi router the way
// the real router does, with a short autosave delay for tests.
func newDocumentRouter(store *storage.Store, state *docstate.Store) (chi.Router, *DocumentHandler) {
	h := NewDocumentHandler(store, state, docstate.NewDebouncerGroup(10*time.Millisecond))
	r := chi.NewRouter()
	r.Get("/api/documents", h.List)
	r.Post("/api/documents", h.Create)
	r.Get("/api/documents/search", h.Search)
	r.Get("/api/documents/{id}", h.Get)
	r.Put("/api/documents/{id}", h.Update)
	r.Delete("/api/documents/{id}", h.Delete)
	r.Get("/api/documents/{id}/preview", h.Preview)
	return r, h
}

func createDocument(t *testing.T, router chi.Router, title, content string) DocumentPayload {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"title": title, "content": content, "tags": []string{"test"}})
	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create document status = %d, want %d (%s)", w.Code, http.StatusCreated, w.Body.String())
	}
	var payload DocumentPayload
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return payload
}

func TestDocumentHandler_CreateAndGet(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	state := docstate.NewStore()
	router, _ := newDocumentRouter(store, state)

	created := createDocument(t, router, "Project Plan", "# Plan")

	if created.ID == "" {
		t.Fatal("created document has no ID")
	}
	if created.Title != "Project Plan" {
		t.Errorf("created title = %q, want %q", created.Title, "Project Plan")
	}

	// Persisted.
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+created.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get document status = %d, want %d", w.Code, http.StatusOK)
	}
	var got DocumentPayload
	_ = json.NewDecoder(w.Body).Decode(&got)
	if got.ID != created.ID || got.Content != "# Plan" {
		t.Errorf("get document = %+v", got)
	}

	// Announced to in-memory state.
	snap := state.Snapshot()
	if len(snap.Documents) != 1 || snap.Documents[0].ID != created.ID {
		t.Errorf("document state = %+v, want created document", snap.Documents)
	}
}

func TestDocumentHandler_Create_RequiresTitle(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	router, _ := newDocumentRouter(store, docstate.NewStore())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(`{"content":"no title"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("create without title status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDocumentHandler_Get_NotFound(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	router, _ := newDocumentRouter(store, docstate.NewStore())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("get missing document status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDocumentHandler_Update_DebouncedPersistence(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	state := docstate.NewStore()
	router, _ := newDocumentRouter(store, state)

	created := createDocument(t, router, "Draft", "v1")

	// Two rapid edits; the second supersedes the first.
	for _, content := range []string{"v2", "v3"} {
		body, _ := json.Marshal(map[string]string{"title": "Draft", "content": content})
		req := httptest.NewRequest(http.MethodPut, "/api/documents/"+created.ID, bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("update status = %d, want %d", w.Code, http.StatusOK)
		}
	}

	// In-memory state reflects the edit immediately.
	snap := state.Snapshot()
	if snap.Documents[0].Content != "v3" {
		t.Errorf("in-memory content = %q, want %q", snap.Documents[0].Content, "v3")
	}

	// The durable write lags behind the debounce window.
	time.Sleep(60 * time.Millisecond)
	doc, err := store.GetDocument(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if doc.Content != "v3" {
		t.Errorf("persisted content = %q, want %q", doc.Content, "v3")
	}
}

func TestDocumentHandler_Update_DifferentDocumentsBothPersist(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	state := docstate.NewStore()
	router, _ := newDocumentRouter(store, state)

	docA := createDocument(t, router, "Alpha", "old-a")
	docB := createDocument(t, router, "Beta", "old-b")

	// Edits to two documents inside one quiet period: neither save may
	// cancel the other's.
	for _, edit := range []struct{ id, title, content string }{
		{docA.ID, "Alpha", "new-a"},
		{docB.ID, "Beta", "new-b"},
	} {
		body, _ := json.Marshal(map[string]string{"title": edit.title, "content": edit.content})
		req := httptest.NewRequest(http.MethodPut, "/api/documents/"+edit.id, bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("update status = %d, want %d", w.Code, http.StatusOK)
		}
	}

	time.Sleep(60 * time.Millisecond)

	gotA, err := store.GetDocument(context.Background(), docA.ID)
	if err != nil {
		t.Fatalf("GetDocument(a) error = %v", err)
	}
	if gotA.Content != "new-a" {
		t.Errorf("persisted content for first document = %q, want %q", gotA.Content, "new-a")
	}
	gotB, err := store.GetDocument(context.Background(), docB.ID)
	if err != nil {
		t.Fatalf("GetDocument(b) error = %v", err)
	}
	if gotB.Content != "new-b" {
		t.Errorf("persisted content for second document = %q, want %q", gotB.Content, "new-b")
	}
}

func TestDocumentHandler_Delete_DropsPendingAutosave(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	state := docstate.NewStore()
	router, _ := newDocumentRouter(store, state)

	created := createDocument(t, router, "Doomed", "v1")

	body := strings.NewReader(`{"title":"Doomed","content":"v2"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/documents/"+created.ID, body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}

	// Delete before the debounced save fires; the pending write must
	// not resurrect the document.
	req = httptest.NewRequest(http.MethodDelete, "/api/documents/"+created.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	time.Sleep(60 * time.Millisecond)
	if _, err := store.GetDocument(context.Background(), created.ID); err == nil {
		t.Error("document reappeared in storage after delete")
	}
}

func TestDocumentHandler_Update_UnknownID(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	router, _ := newDocumentRouter(store, docstate.NewStore())

	body := strings.NewReader(`{"title":"X","content":"Y"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/documents/ghost", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("update unknown document status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDocumentHandler_Delete_ClearsActiveSelection(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	state := docstate.NewStore()
	router, _ := newDocumentRouter(store, state)

	created := createDocument(t, router, "Doomed", "bye")
	state.Dispatch(docstate.SetActiveDocument(created.ID))

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/"+created.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", w.Code, http.StatusNoContent)
	}

	if _, err := store.GetDocument(context.Background(), created.ID); err == nil {
		t.Error("document still in storage after delete")
	}
	if state.Snapshot().ActiveID != "" {
		t.Error("active selection not cleared after deleting the active document")
	}
}

func TestDocumentHandler_Search(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	router, _ := newDocumentRouter(store, docstate.NewStore())

	createDocument(t, router, "Meeting Notes", "roadmap discussion")
	createDocument(t, router, "Groceries", "milk and eggs")

	req := httptest.NewRequest(http.MethodGet, "/api/documents/search?q=roadmap", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d, want %d", w.Code, http.StatusOK)
	}
	var results []DocumentPayload
	_ = json.NewDecoder(w.Body).Decode(&results)
	if len(results) != 1 || results[0].Title != "Meeting Notes" {
		t.Errorf("search results = %+v, want the meeting notes", results)
	}
}

func TestDocumentHandler_Preview(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV())
	router, _ := newDocumentRouter(store, docstate.NewStore())

	created := createDocument(t, router, "Readme", "# Hello\n\nSome *emphasis*.")

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+created.ID+"/preview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("preview Content-Type = %q, want text/html", ct)
	}
	html := w.Body.String()
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("preview HTML missing rendered markdown: %s", html)
	}
}
