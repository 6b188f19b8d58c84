package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"focusdeck/internal/contextutil"
	"focusdeck/internal/docstate"
	"focusdeck/internal/storage"
)

// DocumentHandler serves the document CRUD, search and preview routes.
// Reads come from the in-memory state; writes go to both the state
// store (immediately) and the persistence adapter. Edits from the
// editor are persisted through a per-document trailing-edge debouncer:
// a typing burst on one document produces one storage write, and edits
// to different documents never cancel each other's saves.
type DocumentHandler struct {
	store    *storage.Store
	state    *docstate.Store
	autosave *docstate.DebouncerGroup
	markdown goldmark.Markdown
}

// NewDocumentHandler creates a DocumentHandler. The caller owns the
// autosave group and flushes it on shutdown.
func NewDocumentHandler(store *storage.Store, state *docstate.Store, autosave *docstate.DebouncerGroup) *DocumentHandler {
	return &DocumentHandler{
		store:    store,
		state:    state,
		autosave: autosave,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// DocumentPayload is the JSON shape for a document.
type DocumentPayload struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toDocumentPayload(doc storage.Document) DocumentPayload {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return DocumentPayload{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		Tags:      tags,
		CreatedAt: doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// List returns every document.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.store.GetAllDocuments(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	payload := make([]DocumentPayload, 0, len(docs))
	for _, doc := range docs {
		payload = append(payload, toDocumentPayload(doc))
	}
	writeJSON(w, http.StatusOK, payload)
}

// createDocumentRequest is the POST body for a new document.
type createDocumentRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Create stores a new document and announces it to the in-memory state.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	now := time.Now()
	doc := storage.Document{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.SaveDocument(ctx, doc); err != nil {
		logger.ErrorContext(ctx, "failed to save document", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save document")
		return
	}
	h.state.Dispatch(docstate.AddDocument(doc))

	writeJSON(w, http.StatusCreated, toDocumentPayload(doc))
}

// Get returns one document by ID.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	doc, err := h.store.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to get document", "error", err, "document_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, toDocumentPayload(doc))
}

// updateDocumentRequest is the PUT body for an edit.
type updateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Update applies an edit to the in-memory state immediately and
// schedules a debounced persistence write. The response reflects the
// in-memory state; the durable write may lag behind it.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap := h.state.Dispatch(docstate.UpdateDocument(id, req.Title, req.Content))

	var updated *storage.Document
	for i := range snap.Documents {
		if snap.Documents[i].ID == id {
			updated = &snap.Documents[i]
			break
		}
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	doc := *updated
	h.autosave.Trigger(doc.ID, func() {
		// Detached from the request; the response has already gone out.
		saveCtx := context.Background()
		if err := h.store.SaveDocument(saveCtx, doc); err != nil {
			logger.Error("autosave failed", "error", err, "document_id", doc.ID)
		}
	})

	writeJSON(w, http.StatusOK, toDocumentPayload(doc))
}

// Delete removes a document from storage and from the in-memory state.
// Any pending autosave for the document is dropped so it cannot be
// resurrected after the delete.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	h.autosave.Cancel(id)
	if err := h.store.DeleteDocument(ctx, id); err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "error", err, "document_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	h.state.Dispatch(docstate.DeleteDocument(id))

	w.WriteHeader(http.StatusNoContent)
}

// Search returns documents matching the q query parameter.
func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	query := r.URL.Query().Get("q")

	docs, err := h.store.SearchDocuments(ctx, query)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search documents", "error", err, "query", query)
		writeError(w, http.StatusInternalServerError, "Failed to search documents")
		return
	}

	payload := make([]DocumentPayload, 0, len(docs))
	for _, doc := range docs {
		payload = append(payload, toDocumentPayload(doc))
	}
	writeJSON(w, http.StatusOK, payload)
}

// Preview renders the document's markdown content to HTML.
func (h *DocumentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	doc, err := h.store.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to get document", "error", err, "document_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to get document")
		return
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(doc.Content), &buf); err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "error", err, "document_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to render document")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
