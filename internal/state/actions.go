package state

import (
	"github.com/kk-code-lab/pluck/internal/launch"
	"github.com/kk-code-lab/pluck/internal/search"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== QUERY ACTIONS =====

type QueryCharAction struct {
	Char rune
}
type QueryBackspaceAction struct{}
type QueryDeleteAction struct{}
type QueryDeleteWordAction struct{}
type QueryResetAction struct{}
type QueryMoveCursorAction struct {
	Direction string // "left", "right", "word-left", "word-right", "home", "end"
}

// QueryInsertAction inserts pasted text at the cursor as one edit.
type QueryInsertAction struct {
	Text string
}

// ===== RESULT ACTIONS =====

type NavigateAction struct {
	Delta int
}
type SelectIndexAction struct {
	Index int
}
type ActivateAction struct{}

// SearchResultsAction delivers the rows for search ID.
type SearchResultsAction struct {
	ID      int
	Results search.ResultSet
}

// LaunchFinishedAction reports the terminal outcome of an activation.
type LaunchFinishedAction struct {
	Result launch.Result
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}

// SuspendAction hands the terminal back to the shell (Ctrl-Z).
type SuspendAction struct{}
