package state

import (
	"errors"
	"testing"

	"github.com/kk-code-lab/pluck/internal/launch"
	"github.com/kk-code-lab/pluck/internal/search"
)

type searchRequest struct {
	id    int
	query string
}

type recordingEffects struct {
	searches []searchRequest
	cancels  int
	launches []string
}

func (e *recordingEffects) StartSearch(id int, query string) {
	e.searches = append(e.searches, searchRequest{id: id, query: query})
}

func (e *recordingEffects) CancelSearch() { e.cancels++ }

func (e *recordingEffects) StartLaunch(path string) {
	e.launches = append(e.launches, path)
}

func newTestReducer() (*StateReducer, *recordingEffects) {
	effects := &recordingEffects{}
	return NewStateReducer(effects), effects
}

func mustReduce(t *testing.T, r *StateReducer, s *AppState, actions ...Action) {
	t.Helper()
	for _, action := range actions {
		if _, err := r.Reduce(s, action); err != nil {
			t.Fatalf("Reduce(%T): %v", action, err)
		}
	}
}

func rows(paths ...string) search.ResultSet {
	out := make(search.ResultSet, 0, len(paths))
	for _, p := range paths {
		out = append(out, search.RenderRow{Path: p, Spans: make([]bool, len([]rune(p)))})
	}
	return out
}

func TestQueryCharInsertsAtCursorAndStartsSearch(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")

	mustReduce(t, r, s,
		QueryCharAction{Char: 'a'},
		QueryCharAction{Char: 'c'},
		QueryMoveCursorAction{Direction: "left"},
		QueryCharAction{Char: 'b'},
	)

	if s.Query != "abc" || s.CursorPos != 2 {
		t.Fatalf("expected query abc with cursor 2, got %q/%d", s.Query, s.CursorPos)
	}
	if s.SearchID != 3 || !s.Searching {
		t.Fatalf("expected three searches in flight, got id=%d searching=%v", s.SearchID, s.Searching)
	}
	last := effects.searches[len(effects.searches)-1]
	if last.id != 3 || last.query != "abc" {
		t.Fatalf("unexpected last request %+v", last)
	}
}

func TestEmptyQueryClearsResultsWithoutSearch(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, QueryCharAction{Char: 'x'})
	mustReduce(t, r, s, SearchResultsAction{ID: s.SearchID, Results: rows("x.txt")})

	mustReduce(t, r, s, QueryBackspaceAction{})

	if s.Query != "" || len(s.Results) != 0 || s.Searching {
		t.Fatalf("expected cleared state, got %+v", s)
	}
	if len(effects.searches) != 1 {
		t.Fatalf("empty query must not start a search, got %v", effects.searches)
	}
	if effects.cancels != 1 {
		t.Fatalf("expected in-flight search cancelled, got %d cancels", effects.cancels)
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	r, _ := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, QueryCharAction{Char: 'a'}, QueryCharAction{Char: 'b'})

	mustReduce(t, r, s, SearchResultsAction{ID: 1, Results: rows("stale.txt")})
	if len(s.Results) != 0 || !s.Searching {
		t.Fatalf("stale results applied: %+v", s.Results)
	}

	mustReduce(t, r, s, SearchResultsAction{ID: 2, Results: rows("ab.txt", "cab.go")})
	if got := s.Results.Paths(); len(got) != 2 || got[0] != "ab.txt" {
		t.Fatalf("expected current results, got %q", got)
	}
	if s.Searching {
		t.Fatalf("expected search to be marked finished")
	}
}

func TestNewResultsResetSelection(t *testing.T) {
	r, _ := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, QueryCharAction{Char: 'a'})
	mustReduce(t, r, s, SearchResultsAction{ID: s.SearchID, Results: rows("a", "b", "c")})
	mustReduce(t, r, s, NavigateAction{Delta: 2})
	if s.SelectedIndex != 2 {
		t.Fatalf("expected index 2, got %d", s.SelectedIndex)
	}

	mustReduce(t, r, s, QueryCharAction{Char: 'b'})
	mustReduce(t, r, s, SearchResultsAction{ID: s.SearchID, Results: rows("ab", "abc")})
	if s.SelectedIndex != 0 {
		t.Fatalf("expected selection reset, got %d", s.SelectedIndex)
	}
}

func TestNavigateClampsToResults(t *testing.T) {
	r, _ := newTestReducer()
	s := NewAppState(".")
	s.Results = rows("a", "b", "c")

	tests := []struct {
		delta int
		want  int
	}{
		{delta: 1, want: 1},
		{delta: 5, want: 2},
		{delta: -1, want: 1},
		{delta: -10, want: 0},
	}
	for _, tt := range tests {
		mustReduce(t, r, s, NavigateAction{Delta: tt.delta})
		if s.SelectedIndex != tt.want {
			t.Fatalf("after delta %d expected %d, got %d", tt.delta, tt.want, s.SelectedIndex)
		}
	}

	empty := NewAppState(".")
	mustReduce(t, r, empty, NavigateAction{Delta: 1})
	if empty.SelectedIndex != 0 {
		t.Fatalf("navigation on empty list moved selection to %d", empty.SelectedIndex)
	}
}

func TestSelectIndexIgnoresOutOfRange(t *testing.T) {
	r, _ := newTestReducer()
	s := NewAppState(".")
	s.Results = rows("a", "b")

	mustReduce(t, r, s, SelectIndexAction{Index: 1})
	if s.SelectedIndex != 1 {
		t.Fatalf("expected index 1, got %d", s.SelectedIndex)
	}
	mustReduce(t, r, s, SelectIndexAction{Index: 7})
	if s.SelectedIndex != 1 {
		t.Fatalf("out-of-range select changed index to %d", s.SelectedIndex)
	}
}

func TestActivateLaunchesOnce(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	s.Results = rows("a.txt", "b.txt")
	s.SelectedIndex = 1

	mustReduce(t, r, s, ActivateAction{}, ActivateAction{})

	if len(effects.launches) != 1 || effects.launches[0] != "b.txt" {
		t.Fatalf("expected a single launch of b.txt, got %v", effects.launches)
	}
	if !s.Launching || s.ShouldQuit {
		t.Fatalf("expected launch in flight without quitting yet, got %+v", s)
	}
}

func TestActivateWithoutResultsDoesNothing(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, ActivateAction{})
	if len(effects.launches) != 0 || s.Launching {
		t.Fatalf("unexpected launch with empty results")
	}
}

func TestLaunchFinishedQuitsOnEveryOutcome(t *testing.T) {
	for _, outcome := range []launch.Outcome{launch.Opened, launch.FellBackToReveal, launch.Failed} {
		r, _ := newTestReducer()
		s := NewAppState(".")
		s.Launching = true

		var err error
		if outcome != launch.Opened {
			err = errors.New("no opener")
		}
		mustReduce(t, r, s, LaunchFinishedAction{Result: launch.Result{Outcome: outcome, Path: "/a", Err: err}})

		if !s.ShouldQuit || s.Launching {
			t.Fatalf("%v: expected quit after launch, got %+v", outcome, s)
		}
		if s.LastOutcome == nil || s.LastOutcome.Outcome != outcome {
			t.Fatalf("%v: outcome not recorded", outcome)
		}
	}
}

func TestQueryEditing(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		cursor     int
		action     Action
		wantQuery  string
		wantCursor int
	}{
		{name: "backspace at start is noop", query: "abc", cursor: 0, action: QueryBackspaceAction{}, wantQuery: "abc", wantCursor: 0},
		{name: "backspace removes previous rune", query: "żółw", cursor: 2, action: QueryBackspaceAction{}, wantQuery: "żłw", wantCursor: 1},
		{name: "delete removes rune under cursor", query: "abc", cursor: 1, action: QueryDeleteAction{}, wantQuery: "ac", wantCursor: 1},
		{name: "delete at end is noop", query: "abc", cursor: 3, action: QueryDeleteAction{}, wantQuery: "abc", wantCursor: 3},
		{name: "delete word", query: "src/main.go", cursor: 8, action: QueryDeleteWordAction{}, wantQuery: "src/.go", wantCursor: 4},
		{name: "delete word skips separators", query: "foo bar  ", cursor: 9, action: QueryDeleteWordAction{}, wantQuery: "foo ", wantCursor: 4},
		{name: "reset", query: "abc", cursor: 2, action: QueryResetAction{}, wantQuery: "", wantCursor: 0},
		{name: "insert into empty query", query: "", cursor: 0, action: QueryInsertAction{Text: "n\u00e4me"}, wantQuery: "n\u00e4me", wantCursor: 4},
		{name: "insert at cursor", query: "ac", cursor: 1, action: QueryInsertAction{Text: "bb"}, wantQuery: "abbc", wantCursor: 3},
		{name: "insert empty is noop", query: "abc", cursor: 1, action: QueryInsertAction{}, wantQuery: "abc", wantCursor: 1},
		{name: "home", query: "abc", cursor: 2, action: QueryMoveCursorAction{Direction: "home"}, wantQuery: "abc", wantCursor: 0},
		{name: "end", query: "abc", cursor: 0, action: QueryMoveCursorAction{Direction: "end"}, wantQuery: "abc", wantCursor: 3},
		{name: "right stops at end", query: "ab", cursor: 2, action: QueryMoveCursorAction{Direction: "right"}, wantQuery: "ab", wantCursor: 2},
		{name: "word right", query: "foo bar", cursor: 0, action: QueryMoveCursorAction{Direction: "word-right"}, wantQuery: "foo bar", wantCursor: 3},
		{name: "word left", query: "foo bar", cursor: 7, action: QueryMoveCursorAction{Direction: "word-left"}, wantQuery: "foo bar", wantCursor: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestReducer()
			s := NewAppState(".")
			s.Query = tt.query
			s.CursorPos = tt.cursor
			mustReduce(t, r, s, tt.action)
			if s.Query != tt.wantQuery || s.CursorPos != tt.wantCursor {
				t.Fatalf("got %q/%d, want %q/%d", s.Query, s.CursorPos, tt.wantQuery, tt.wantCursor)
			}
		})
	}
}

func TestInsertStartsSingleSearch(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, QueryInsertAction{Text: "main.go"})

	if len(effects.searches) != 1 {
		t.Fatalf("expected one search for the inserted text, got %d", len(effects.searches))
	}
	if got := effects.searches[0]; got.query != "main.go" || got.id != s.SearchID {
		t.Fatalf("unexpected search request %+v (search id %d)", got, s.SearchID)
	}
}

func TestCursorMovementDoesNotSearch(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	s.Query = "abc"
	s.CursorPos = 3
	mustReduce(t, r, s, QueryMoveCursorAction{Direction: "left"}, QueryMoveCursorAction{Direction: "home"})
	if len(effects.searches) != 0 || s.SearchID != 0 {
		t.Fatalf("cursor movement started a search")
	}
}

func TestSearchQueryIsNFC(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, QueryCharAction{Char: 'e'}, QueryCharAction{Char: '\u0301'})

	if s.Query != "e\u0301" || s.CursorPos != 2 {
		t.Fatalf("typed query must be kept as entered, got %q/%d", s.Query, s.CursorPos)
	}
	last := effects.searches[len(effects.searches)-1]
	if last.query != "\u00e9" {
		t.Fatalf("expected composed query, got %q", last.query)
	}
}

func TestQuitCancelsSearch(t *testing.T) {
	r, effects := newTestReducer()
	s := NewAppState(".")
	mustReduce(t, r, s, QuitAction{})
	if !s.ShouldQuit || effects.cancels != 1 {
		t.Fatalf("expected quit with cancellation, got quit=%v cancels=%d", s.ShouldQuit, effects.cancels)
	}
}

func TestReducerWithoutEffects(t *testing.T) {
	r := NewStateReducer(nil)
	s := NewAppState("")
	s.Results = rows("a")
	mustReduce(t, r, s, QueryCharAction{Char: 'q'}, ActivateAction{}, QuitAction{}, ResizeAction{Width: 80, Height: 24})
	if s.Root != "." || s.ScreenWidth != 80 || !s.ShouldQuit {
		t.Fatalf("unexpected state %+v", s)
	}
}
