package storage

import "time"

// TodoStatus is the workflow state of a todo item. The three values map
// onto the kanban board columns.
type TodoStatus string

const (
	StatusPending    TodoStatus = "pending"
	StatusInProgress TodoStatus = "in_progress"
	StatusCompleted  TodoStatus = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s TodoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TodoPriority is the urgency of a todo item.
type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p TodoPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Document is a markdown note. Tags keep their insertion order and may
// contain duplicates; the store does not deduplicate them.
type Document struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoItem is a task tracked on the kanban board.
type TodoItem struct {
	ID        string
	Content   string
	Status    TodoStatus
	Priority  TodoPriority
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PomodoroSession is one completed focus interval. Sessions are
// append-only; there are no update or delete operations.
type PomodoroSession struct {
	ID              string
	Label           string
	DurationSeconds int
	CompletedAt     time.Time
}
