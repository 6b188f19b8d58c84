package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focusdeck/internal/config"
	"focusdeck/internal/docstate"
	"focusdeck/internal/http"
	"focusdeck/internal/llm"
	"focusdeck/internal/service"
	"focusdeck/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Record store over the key-value table
	kv := storage.NewSQLiteKV(db)
	store := storage.NewStoreWithKey(kv, cfg.StorageKey)

	// In-memory document state, seeded from storage
	docState := docstate.NewStore()
	docs, err := store.GetAllDocuments(context.Background())
	if err != nil {
		// A broken read degrades to an empty workspace; the store
		// itself already treats corrupt blobs as empty.
		slog.Error("Failed to load documents, starting empty", "error", err)
		docs = nil
	}
	docState.Dispatch(docstate.SetDocuments(docs))
	slog.Info("Document state loaded", "count", len(docs))

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Chat service with command extraction side effects
	chatService := service.NewChatService(llmClient, store, docState)
	slog.Info("Chat service initialized", "model", cfg.LLMModelName)

	// Per-document autosave debouncer, flushed on shutdown so no
	// pending edit is lost.
	autosave := docstate.NewDebouncerGroup(docstate.DefaultSaveDelay)

	// Create router with dependencies
	deps := &http.Deps{
		ChatService: chatService,
		Store:       store,
		DocState:    docState,
		KV:          kv,
		Autosave:    autosave,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)

	server := &nethttp.Server{Addr: addr, Handler: router}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	autosave.Flush()
	slog.Info("Shutdown complete")
}
