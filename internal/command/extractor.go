// Package command bridges free-text chat to domain actions. The
// extractor scans the user's message for a small fixed set of intents
// ("create document ...", "remind me to ...") and synthesizes a new
// document or todo as a side effect of the chat turn.
package command

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"focusdeck/internal/storage"
)

// Result is the outcome of scanning one chat turn. At most one of
// Document and Todo is set; Reply is either a confirmation for the
// created entity or the assistant's original reply untouched.
type Result struct {
	Document *storage.Document
	Todo     *storage.TodoItem
	Reply    string
}

// Matched reports whether the turn produced a side effect.
func (r Result) Matched() bool {
	return r.Document != nil || r.Todo != nil
}

// intent pairs a trigger predicate with an extractor. Intents are tried
// in order and the first one that produces a result wins, so a chat
// turn creates at most one entity.
type intent struct {
	trigger func(lowerMsg string) bool
	build   func(e *Extractor, msg string) Result
}

// Extractor recognizes chat intents. It never fails: a message that
// matches nothing, or matches a trigger but yields no extractable
// payload, degrades to a pass-through of the assistant reply.
type Extractor struct {
	now     func() time.Time
	newID   func() string
	intents []intent
}

// NewExtractor creates an Extractor with the standard intent table.
func NewExtractor() *Extractor {
	e := &Extractor{
		now: time.Now,
		newID: func() string {
			return uuid.New().String()
		},
	}
	e.intents = []intent{
		{trigger: documentTrigger, build: (*Extractor).buildDocument},
		{trigger: todoTrigger, build: (*Extractor).buildTodo},
	}
	return e
}

// Extract scans userMessage for known intents. Matching is
// case-insensitive and runs against the user's message only, never the
// assistant reply.
func (e *Extractor) Extract(userMessage, assistantReply string) Result {
	lower := strings.ToLower(userMessage)
	for _, in := range e.intents {
		if !in.trigger(lower) {
			continue
		}
		if res := in.build(e, userMessage); res.Matched() {
			return res
		}
	}
	return Result{Reply: assistantReply}
}

var (
	documentTriggers = []string{"create document", "new document", "add document"}
	todoTriggers     = []string{"create todo", "add todo", "new todo", "remind me to"}

	// Title follows the trigger, an optional titled/called/named
	// connector and optional quotes, and runs to end of line.
	documentTitleRe = regexp.MustCompile(`(?i)(?:create|new|add)\s+document(?:\s+(?:titled|called|named))?\s+["'“”]?([^"'“”\r\n]+)`)

	todoContentRe = regexp.MustCompile(`(?i)(?:create|add|new)\s+todo(?:\s+(?:titled|called|named))?\s+["'“”]?([^"'“”\r\n]+)`)
	remindRe      = regexp.MustCompile(`(?i)remind\s+me\s+to\s+([^\r\n]+)`)
)

func containsAny(lowerMsg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lowerMsg, p) {
			return true
		}
	}
	return false
}

func documentTrigger(lowerMsg string) bool {
	return containsAny(lowerMsg, documentTriggers)
}

func todoTrigger(lowerMsg string) bool {
	return containsAny(lowerMsg, todoTriggers)
}

func (e *Extractor) buildDocument(msg string) Result {
	m := documentTitleRe.FindStringSubmatch(msg)
	if m == nil {
		return Result{}
	}
	title := strings.TrimSpace(m[1])
	if title == "" {
		return Result{}
	}

	now := e.now()
	doc := &storage.Document{
		ID:        e.newID(),
		Title:     title,
		Content:   "",
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return Result{
		Document: doc,
		Reply:    fmt.Sprintf("I've created a new document titled %q for you. You can find it in your documents list.", title),
	}
}

func (e *Extractor) buildTodo(msg string) Result {
	var content string
	if m := todoContentRe.FindStringSubmatch(msg); m != nil {
		content = strings.TrimSpace(m[1])
	} else if m := remindRe.FindStringSubmatch(msg); m != nil {
		content = strings.TrimSpace(m[1])
	}
	if content == "" {
		return Result{}
	}

	now := e.now()
	todo := &storage.TodoItem{
		ID:        e.newID(),
		Content:   content,
		Status:    storage.StatusPending,
		Priority:  inferPriority(msg),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return Result{
		Todo:  todo,
		Reply: fmt.Sprintf("I've added %q to your todo list with %s priority.", content, todo.Priority),
	}
}

// inferPriority reads urgency cues from the whole message: "urgent" or
// "important" raise the priority, an explicit "low priority" lowers it.
func inferPriority(msg string) storage.TodoPriority {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "urgent") || strings.Contains(lower, "important") {
		return storage.PriorityHigh
	}
	if strings.Contains(lower, "low priority") {
		return storage.PriorityLow
	}
	return storage.PriorityMedium
}
