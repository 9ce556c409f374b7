package state

import (
	"golang.org/x/text/unicode/norm"

	"github.com/kk-code-lab/pluck/internal/launch"
	"github.com/kk-code-lab/pluck/internal/search"
)

// AppState is the single source of truth for the overlay.
type AppState struct {
	// Search root passed on the command line
	Root string

	// Query entry
	Query     string
	CursorPos int // in runes

	// Results
	Results       search.ResultSet
	SelectedIndex int
	SearchID      int // bumped on every query change; stale results carry an older ID
	Searching     bool

	// Activation
	Launching   bool
	LastOutcome *launch.Result

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Non-fatal problem shown in the footer
	LastError error

	ShouldQuit bool
}

// NewAppState returns the initial state for root.
func NewAppState(root string) *AppState {
	if root == "" {
		root = "."
	}
	return &AppState{Root: root}
}

// SearchQuery is the query handed to the finder: the typed text in NFC so
// composed and decomposed input rank the same.
func (s *AppState) SearchQuery() string {
	return norm.NFC.String(s.Query)
}

// SelectedRow returns the highlighted result, if any.
func (s *AppState) SelectedRow() (search.RenderRow, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return search.RenderRow{}, false
	}
	return s.Results[s.SelectedIndex], true
}

func (s *AppState) clampSelection() {
	if len(s.Results) == 0 {
		s.SelectedIndex = 0
		return
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.SelectedIndex >= len(s.Results) {
		s.SelectedIndex = len(s.Results) - 1
	}
}

// PageSize is how far PgUp/PgDn move the selection.
const PageSize = 5
