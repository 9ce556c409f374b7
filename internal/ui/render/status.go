package render

import (
	"fmt"
	"strings"

	statepkg "github.com/kk-code-lab/pluck/internal/state"
)

// footerStatus returns the left-hand footer text and whether it reports a
// problem.
func footerStatus(state *statepkg.AppState) (string, bool) {
	switch {
	case state.LastError != nil:
		return state.LastError.Error(), true
	case state.Launching:
		return "opening…", false
	case state.Searching:
		return "searching…", false
	case state.Query != "" && len(state.Results) == 0:
		return "no matches", false
	case len(state.Results) > 0:
		return fmt.Sprintf("%d/%d", state.SelectedIndex+1, len(state.Results)), false
	default:
		return state.Root, false
	}
}

func footerHints(state *statepkg.AppState) string {
	var parts []string
	if len(state.Results) > 0 {
		parts = append(parts, "↵ open", "↑↓ select")
	}
	parts = append(parts, "esc close")
	return strings.Join(parts, "  ")
}
