package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"focusdeck/internal/docstate"
	"focusdeck/internal/handlers"
	"focusdeck/internal/service"
	"focusdeck/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	Store       *storage.Store
	DocState    *docstate.Store
	KV          storage.KV
	// Autosave is the per-document save debouncer. The caller keeps a
	// reference so it can flush pending writes on shutdown; nil gets a
	// group with docstate.DefaultSaveDelay.
	Autosave *docstate.DebouncerGroup
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(LoggerMiddleware)
	r.Use(CORS)

	autosave := deps.Autosave
	if autosave == nil {
		autosave = docstate.NewDebouncerGroup(docstate.DefaultSaveDelay)
	}

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	documentHandler := handlers.NewDocumentHandler(deps.Store, deps.DocState, autosave)
	todoHandler := handlers.NewTodoHandler(deps.Store)
	sessionHandler := handlers.NewSessionHandler(deps.Store)
	workspaceHandler := handlers.NewWorkspaceHandler(deps.DocState)
	exportHandler := handlers.NewExportHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler(deps.KV)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", documentHandler.List)
			r.Post("/", documentHandler.Create)
			r.Get("/search", documentHandler.Search)
			r.Get("/{id}", documentHandler.Get)
			r.Put("/{id}", documentHandler.Update)
			r.Delete("/{id}", documentHandler.Delete)
			r.Get("/{id}/preview", documentHandler.Preview)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", todoHandler.List)
			r.Post("/", todoHandler.Create)
			r.Get("/board", todoHandler.Board)
			r.Put("/{id}/status", todoHandler.UpdateStatus)
			r.Delete("/{id}", todoHandler.Delete)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)
			r.Post("/", sessionHandler.Create)
		})

		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", workspaceHandler.Get)
			r.Put("/active-document", workspaceHandler.SetActive)
			r.Post("/preview/toggle", workspaceHandler.TogglePreview)
		})

		r.Method(http.MethodGet, "/export", exportHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
