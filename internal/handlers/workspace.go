package handlers

import (
	"encoding/json"
	"net/http"

	"focusdeck/internal/contextutil"
	"focusdeck/internal/docstate"
)

// WorkspaceHandler exposes the transient editing state: which document
// is active and whether the markdown preview is on.
type WorkspaceHandler struct {
	state *docstate.Store
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(state *docstate.Store) *WorkspaceHandler {
	return &WorkspaceHandler{state: state}
}

// WorkspacePayload is the JSON shape of the transient state.
type WorkspacePayload struct {
	ActiveDocumentID string `json:"active_document_id"`
	PreviewMode      bool   `json:"preview_mode"`
	DocumentCount    int    `json:"document_count"`
}

func toWorkspacePayload(s docstate.State) WorkspacePayload {
	return WorkspacePayload{
		ActiveDocumentID: s.ActiveID,
		PreviewMode:      s.PreviewMode,
		DocumentCount:    len(s.Documents),
	}
}

// Get returns the current workspace state.
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toWorkspacePayload(h.state.Snapshot()))
}

// setActiveRequest is the PUT body selecting a document.
type setActiveRequest struct {
	ID string `json:"id"`
}

// SetActive selects the document being edited. An empty ID clears the
// selection; the ID is not validated against the collection.
func (h *WorkspaceHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap := h.state.Dispatch(docstate.SetActiveDocument(req.ID))
	writeJSON(w, http.StatusOK, toWorkspacePayload(snap))
}

// TogglePreview flips the markdown preview flag.
func (h *WorkspaceHandler) TogglePreview(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Dispatch(docstate.TogglePreviewMode())
	writeJSON(w, http.StatusOK, toWorkspacePayload(snap))
}
