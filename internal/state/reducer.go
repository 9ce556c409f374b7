package state

// Effects runs the side effects the reducer requests. The application
// implements it; the reducer itself never blocks.
type Effects interface {
	StartSearch(id int, query string)
	CancelSearch()
	StartLaunch(path string)
}

// StateReducer applies actions to state
type StateReducer struct {
	effects Effects
}

// NewStateReducer creates a reducer that hands side effects to effects.
// A nil effects runs the reducer without any.
func NewStateReducer(effects Effects) *StateReducer {
	return &StateReducer{effects: effects}
}

// Reduce applies an action to state and returns it.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== QUERY =====

	case QueryCharAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))

		buffer := make([]rune, 0, len(runes)+1)
		buffer = append(buffer, runes[:cursor]...)
		buffer = append(buffer, a.Char)
		buffer = append(buffer, runes[cursor:]...)

		state.Query = string(buffer)
		state.CursorPos = cursor + 1
		r.queryChanged(state)
		return state, nil

	case QueryBackspaceAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		if cursor == 0 {
			return state, nil
		}

		buffer := append([]rune{}, runes[:cursor-1]...)
		buffer = append(buffer, runes[cursor:]...)

		state.Query = string(buffer)
		state.CursorPos = cursor - 1
		r.queryChanged(state)
		return state, nil

	case QueryDeleteAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		if cursor >= len(runes) {
			return state, nil
		}

		buffer := append([]rune{}, runes[:cursor]...)
		buffer = append(buffer, runes[cursor+1:]...)

		state.Query = string(buffer)
		state.CursorPos = cursor
		r.queryChanged(state)
		return state, nil

	case QueryDeleteWordAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		if cursor == 0 {
			return state, nil
		}

		start := previousWordBoundary(runes, cursor)
		buffer := append([]rune{}, runes[:start]...)
		buffer = append(buffer, runes[cursor:]...)

		state.Query = string(buffer)
		state.CursorPos = start
		r.queryChanged(state)
		return state, nil

	case QueryResetAction:
		if state.Query == "" {
			return state, nil
		}
		state.Query = ""
		state.CursorPos = 0
		r.queryChanged(state)
		return state, nil

	case QueryInsertAction:
		text := []rune(a.Text)
		if len(text) == 0 {
			return state, nil
		}
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))

		buffer := make([]rune, 0, len(runes)+len(text))
		buffer = append(buffer, runes[:cursor]...)
		buffer = append(buffer, text...)
		buffer = append(buffer, runes[cursor:]...)

		state.Query = string(buffer)
		state.CursorPos = cursor + len(text)
		r.queryChanged(state)
		return state, nil

	case QueryMoveCursorAction:
		runes := []rune(state.Query)
		cursor := clampCursor(state.CursorPos, len(runes))
		switch a.Direction {
		case "left":
			if cursor > 0 {
				cursor--
			}
		case "right":
			if cursor < len(runes) {
				cursor++
			}
		case "word-left":
			cursor = previousWordBoundary(runes, cursor)
		case "word-right":
			cursor = nextWordBoundary(runes, cursor)
		case "home":
			cursor = 0
		case "end":
			cursor = len(runes)
		}
		state.CursorPos = cursor
		return state, nil

	// ===== RESULTS =====

	case SearchResultsAction:
		if a.ID != state.SearchID {
			return state, nil
		}
		state.Results = a.Results
		state.Searching = false
		state.SelectedIndex = 0
		state.clampSelection()
		return state, nil

	case NavigateAction:
		if len(state.Results) == 0 || a.Delta == 0 {
			return state, nil
		}
		state.SelectedIndex += a.Delta
		state.clampSelection()
		return state, nil

	case SelectIndexAction:
		if a.Index < 0 || a.Index >= len(state.Results) {
			return state, nil
		}
		state.SelectedIndex = a.Index
		return state, nil

	case ActivateAction:
		if state.Launching {
			return state, nil
		}
		row, ok := state.SelectedRow()
		if !ok {
			return state, nil
		}
		state.Launching = true
		if r.effects != nil {
			r.effects.StartLaunch(row.Path)
		}
		return state, nil

	case LaunchFinishedAction:
		result := a.Result
		state.Launching = false
		state.LastOutcome = &result
		state.LastError = result.Err
		state.ShouldQuit = true
		r.cancelSearch()
		return state, nil

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		return state, nil

	// ===== APPLICATION =====

	case QuitAction:
		state.ShouldQuit = true
		r.cancelSearch()
		return state, nil
	}

	return state, nil
}

// queryChanged supersedes any running search. An empty query clears the
// list without starting the finder.
func (r *StateReducer) queryChanged(state *AppState) {
	state.SearchID++

	query := state.SearchQuery()
	if query == "" {
		state.Results = nil
		state.SelectedIndex = 0
		state.Searching = false
		r.cancelSearch()
		return
	}

	state.Searching = true
	if r.effects != nil {
		r.effects.StartSearch(state.SearchID, query)
	}
}

func (r *StateReducer) cancelSearch() {
	if r.effects != nil {
		r.effects.CancelSearch()
	}
}
