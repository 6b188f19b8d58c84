package handlers

import (
	"net/http"
	"time"

	"focusdeck/internal/contextutil"
	"focusdeck/internal/storage"
)

// ExportHandler serves the CSV backup download.
type ExportHandler struct {
	store *storage.Store
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(store *storage.Store) *ExportHandler {
	return &ExportHandler{store: store}
}

// ServeHTTP streams all records as a CSV attachment.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+storage.ExportFilename(time.Now())+`"`)

	if err := h.store.ExportCSV(ctx, w); err != nil {
		// Headers may already be out; log and give up on this response.
		logger.ErrorContext(ctx, "failed to export records", "error", err)
	}
}
