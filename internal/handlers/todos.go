package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"focusdeck/internal/contextutil"
	"focusdeck/internal/storage"
)

// TodoHandler serves the todo CRUD and kanban board routes.
type TodoHandler struct {
	store *storage.Store
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(store *storage.Store) *TodoHandler {
	return &TodoHandler{store: store}
}

// TodoPayload is the JSON shape for a todo item.
type TodoPayload struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTodoPayload(todo storage.TodoItem) TodoPayload {
	return TodoPayload{
		ID:        todo.ID,
		Content:   todo.Content,
		Status:    string(todo.Status),
		Priority:  string(todo.Priority),
		CreatedAt: todo.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: todo.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// List returns every todo.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	todos, err := h.store.GetAllTodos(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list todos", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list todos")
		return
	}

	payload := make([]TodoPayload, 0, len(todos))
	for _, todo := range todos {
		payload = append(payload, toTodoPayload(todo))
	}
	writeJSON(w, http.StatusOK, payload)
}

// createTodoRequest is the POST body for a new todo.
type createTodoRequest struct {
	Content  string `json:"content"`
	Priority string `json:"priority"`
}

// Create stores a new todo. Priority defaults to medium; status always
// starts pending.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	priority := storage.TodoPriority(req.Priority)
	if req.Priority == "" {
		priority = storage.PriorityMedium
	}
	if !priority.Valid() {
		writeError(w, http.StatusBadRequest, "Priority must be low, medium or high")
		return
	}

	now := time.Now()
	todo := storage.TodoItem{
		ID:        uuid.New().String(),
		Content:   req.Content,
		Status:    storage.StatusPending,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.SaveTodo(ctx, todo); err != nil {
		logger.ErrorContext(ctx, "failed to save todo", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save todo")
		return
	}

	writeJSON(w, http.StatusCreated, toTodoPayload(todo))
}

// updateStatusRequest is the PUT body for a status change.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a todo between board columns and refreshes its
// UpdatedAt.
func (h *TodoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status := storage.TodoStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "Status must be pending, in_progress or completed")
		return
	}

	todo, err := h.store.GetTodo(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found")
			return
		}
		logger.ErrorContext(ctx, "failed to get todo", "error", err, "todo_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to get todo")
		return
	}

	todo.Status = status
	todo.UpdatedAt = time.Now()

	if err := h.store.UpdateTodo(ctx, todo); err != nil {
		logger.ErrorContext(ctx, "failed to update todo", "error", err, "todo_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	writeJSON(w, http.StatusOK, toTodoPayload(todo))
}

// Delete removes a todo. Deleting an unknown ID still returns 204.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteTodo(ctx, id); err != nil {
		logger.ErrorContext(ctx, "failed to delete todo", "error", err, "todo_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BoardPayload groups todos into kanban columns by status.
type BoardPayload struct {
	Pending    []TodoPayload `json:"pending"`
	InProgress []TodoPayload `json:"in_progress"`
	Completed  []TodoPayload `json:"completed"`
}

// Board returns the kanban view of all todos.
func (h *TodoHandler) Board(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	todos, err := h.store.GetAllTodos(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list todos", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list todos")
		return
	}

	board := BoardPayload{
		Pending:    []TodoPayload{},
		InProgress: []TodoPayload{},
		Completed:  []TodoPayload{},
	}
	for _, todo := range todos {
		payload := toTodoPayload(todo)
		switch todo.Status {
		case storage.StatusInProgress:
			board.InProgress = append(board.InProgress, payload)
		case storage.StatusCompleted:
			board.Completed = append(board.Completed, payload)
		default:
			board.Pending = append(board.Pending, payload)
		}
	}

	writeJSON(w, http.StatusOK, board)
}
