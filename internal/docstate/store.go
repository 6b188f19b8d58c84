// Package docstate holds the in-memory editing state for documents: the
// open collection, the active selection and the preview-mode flag. All
// mutation goes through Dispatch with a closed set of actions; reads go
// through Snapshot. Persistence is the caller's job — the store itself
// never touches storage.
package docstate

import (
	"sync"
	"time"

	"focusdeck/internal/storage"
)

// State is one immutable view of the editing state. ActiveID is empty
// when no document is selected.
type State struct {
	Documents   []storage.Document
	ActiveID    string
	PreviewMode bool
}

// Action is a state transition request. Exactly one of the action
// constructors below produces a valid Action.
type Action struct {
	kind    actionKind
	docs    []storage.Document
	doc     storage.Document
	id      string
	title   string
	content string
}

type actionKind int

const (
	actionSetDocuments actionKind = iota
	actionAddDocument
	actionUpdateDocument
	actionDeleteDocument
	actionSetActiveDocument
	actionTogglePreviewMode
)

// SetDocuments replaces the whole collection, typically after the
// initial load. The list is taken as-is.
func SetDocuments(docs []storage.Document) Action {
	return Action{kind: actionSetDocuments, docs: docs}
}

// AddDocument appends one document. The caller guarantees a unique ID;
// the store does not deduplicate.
func AddDocument(doc storage.Document) Action {
	return Action{kind: actionAddDocument, doc: doc}
}

// UpdateDocument replaces the title and content of the document with
// the given ID and refreshes its UpdatedAt. Unknown IDs are a silent
// no-op.
func UpdateDocument(id, title, content string) Action {
	return Action{kind: actionUpdateDocument, id: id, title: title, content: content}
}

// DeleteDocument removes the document with the given ID. If it was the
// active document, the active selection is cleared.
func DeleteDocument(id string) Action {
	return Action{kind: actionDeleteDocument, id: id}
}

// SetActiveDocument selects which document is being edited. An empty ID
// clears the selection. The ID is not validated against the collection.
func SetActiveDocument(id string) Action {
	return Action{kind: actionSetActiveDocument, id: id}
}

// TogglePreviewMode flips the markdown preview flag.
func TogglePreviewMode() Action {
	return Action{kind: actionTogglePreviewMode}
}

// Store is the reducer-driven document state container. One Store is
// constructed at startup and shared by reference; there is no package
// singleton.
type Store struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Snapshot returns a copy of the current state. The returned document
// slice is owned by the caller.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	docs := make([]storage.Document, len(s.state.Documents))
	copy(docs, s.state.Documents)
	return State{
		Documents:   docs,
		ActiveID:    s.state.ActiveID,
		PreviewMode: s.state.PreviewMode,
	}
}

// Dispatch applies an action and returns the new snapshot. Every
// transition is synchronous and total: unknown IDs reduce to no-ops and
// nothing here can fail.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, action, s.now())
	return s.snapshotLocked()
}

// reduce is the pure transition function.
func reduce(state State, action Action, now time.Time) State {
	switch action.kind {
	case actionSetDocuments:
		state.Documents = action.docs

	case actionAddDocument:
		docs := make([]storage.Document, 0, len(state.Documents)+1)
		docs = append(docs, state.Documents...)
		docs = append(docs, action.doc)
		state.Documents = docs

	case actionUpdateDocument:
		docs := make([]storage.Document, len(state.Documents))
		copy(docs, state.Documents)
		for i := range docs {
			if docs[i].ID == action.id {
				docs[i].Title = action.title
				docs[i].Content = action.content
				docs[i].UpdatedAt = now
				break
			}
		}
		state.Documents = docs

	case actionDeleteDocument:
		docs := make([]storage.Document, 0, len(state.Documents))
		for _, doc := range state.Documents {
			if doc.ID != action.id {
				docs = append(docs, doc)
			}
		}
		state.Documents = docs
		if state.ActiveID == action.id {
			state.ActiveID = ""
		}

	case actionSetActiveDocument:
		state.ActiveID = action.id

	case actionTogglePreviewMode:
		state.PreviewMode = !state.PreviewMode
	}

	return state
}
