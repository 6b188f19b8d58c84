package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks focusdeck/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService focusdeck/internal/service ChatService

import (
	"context"
	"errors"
	"net/http"

	"focusdeck/internal/command"
	"focusdeck/internal/contextutil"
	"focusdeck/internal/docstate"
	"focusdeck/internal/llm"
	"focusdeck/internal/storage"
)

// systemPrompt frames every conversation sent upstream.
const systemPrompt = "You are FocusDeck's assistant. You help the user manage notes, " +
	"todos and focus sessions. Keep answers short and practical."

// Fixed assistant-visible messages for upstream failures. The chat
// conversation continues after any of these; a failed call never
// surfaces as an error to the caller.
const (
	MsgConnectivity = "I couldn't reach the chat service. Please check your connection and try again."
	MsgAuth         = "The chat service rejected the configured API key. Please check your authentication settings."
	MsgRateLimited  = "The chat service is rate limiting requests right now. Please wait a moment and try again."
	MsgGeneric      = "Something went wrong while contacting the chat service. Please try again."
)

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends the system prompt, history and user message and
	// returns the completion.
	Chat(ctx context.Context, system string, history []llm.Message, userMessage string) (string, error)
}

// Recorder persists the entities the command extractor synthesizes.
// *storage.Store satisfies it.
type Recorder interface {
	SaveDocument(ctx context.Context, doc storage.Document) error
	SaveTodo(ctx context.Context, todo storage.TodoItem) error
}

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string
	Content string
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string
	History []Turn
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply string
	// CreatedDocumentID / CreatedTodoID are set when the turn
	// synthesized an entity, so the UI can refresh without a reload.
	CreatedDocumentID string
	CreatedTodoID     string
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	llmClient LLMClient
	recorder  Recorder
	extractor *command.Extractor
	docs      *docstate.Store
}

// NewChatService creates a new ChatService. docs may be nil when no
// in-memory document state needs announcing (e.g. in tests).
func NewChatService(llmClient LLMClient, recorder Recorder, docs *docstate.Store) ChatService {
	return &chatService{
		llmClient: llmClient,
		recorder:  recorder,
		extractor: command.NewExtractor(),
		docs:      docs,
	}
}

// ProcessChat validates the request, calls the LLM, degrades upstream
// failures into fixed assistant messages, and applies any side effect
// the command extractor finds in the user's message.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if req.Message == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.llmClient.Chat(ctx, systemPrompt, history, req.Message)
	if err != nil {
		// Upstream failures become assistant-visible messages; the
		// conversation continues and no error escapes.
		msg := friendlyMessage(err)
		logger.ErrorContext(ctx, "LLM call failed", "error", err)
		return ChatResponse{Reply: msg}, nil
	}

	resp := ChatResponse{Reply: reply}
	result := s.extractor.Extract(req.Message, reply)
	resp.Reply = result.Reply

	switch {
	case result.Document != nil:
		if err := s.recorder.SaveDocument(ctx, *result.Document); err != nil {
			// Best-effort: the chat turn still succeeds.
			logger.ErrorContext(ctx, "failed to save extracted document", "error", err, "document_id", result.Document.ID)
		} else {
			resp.CreatedDocumentID = result.Document.ID
		}
		if s.docs != nil {
			s.docs.Dispatch(docstate.AddDocument(*result.Document))
		}
	case result.Todo != nil:
		if err := s.recorder.SaveTodo(ctx, *result.Todo); err != nil {
			logger.ErrorContext(ctx, "failed to save extracted todo", "error", err, "todo_id", result.Todo.ID)
		} else {
			resp.CreatedTodoID = result.Todo.ID
		}
	}

	logger.InfoContext(ctx, "chat request processed",
		"message_length", len(req.Message),
		"reply_length", len(resp.Reply),
		"created_document", resp.CreatedDocumentID != "",
		"created_todo", resp.CreatedTodoID != "")
	return resp, nil
}

// friendlyMessage maps an upstream failure to the fixed status-to-text
// table: no status (transport failure) is a connectivity problem, 401
// an authentication problem, 429 a rate limit, anything else generic.
func friendlyMessage(err error) string {
	var statusErr *llm.StatusError
	if !errors.As(err, &statusErr) {
		return MsgConnectivity
	}
	switch statusErr.Code {
	case http.StatusUnauthorized:
		return MsgAuth
	case http.StatusTooManyRequests:
		return MsgRateLimited
	default:
		return MsgGeneric
	}
}
