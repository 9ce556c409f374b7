package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/kk-code-lab/pluck/internal/launch"
	"github.com/kk-code-lab/pluck/internal/launch/mocks"
	searchpkg "github.com/kk-code-lab/pluck/internal/search"
	statepkg "github.com/kk-code-lab/pluck/internal/state"
)

type fakeSearcher struct {
	mu        sync.Mutex
	queries   []string
	cancelled int
	block     map[string]bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string) searchpkg.ResultSet {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	blocked := f.block[query]
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		f.mu.Lock()
		f.cancelled++
		f.mu.Unlock()
		return nil
	}
	return searchpkg.ResultSet{
		{Path: "dir/" + query + ".txt", Spans: searchpkg.Annotate("dir/"+query+".txt", query)},
		{Path: "other/" + query + ".go", Spans: searchpkg.Annotate("other/"+query+".go", query)},
	}
}

func (f *fakeSearcher) snapshot() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...), f.cancelled
}

func newTestApp(t *testing.T, searcher Searcher, launcher launch.Launcher) (*Application, tcell.SimulationScreen) {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	app, err := New(Dependencies{
		Screen:   scr,
		Searcher: searcher,
		Launcher: launcher,
		Logger:   zerolog.Nop(),
		Root:     ".",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	scr.SetSize(100, 30)
	app.state.ScreenWidth, app.state.ScreenHeight = 100, 30
	t.Cleanup(func() {
		_ = app.Close()
	})
	return app, scr
}

func waitAction(t *testing.T, app *Application) statepkg.Action {
	t.Helper()
	select {
	case action := <-app.actionCh:
		return action
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for action")
		return nil
	}
}

// typeKeys reduces query edits directly so async results stay queued for
// the test to collect.
func typeKeys(app *Application, text string) {
	for _, r := range text {
		app.handleAction(statepkg.QueryCharAction{Char: r})
	}
}

func waitResults(t *testing.T, app *Application, id int) {
	t.Helper()
	for {
		action := waitAction(t, app)
		app.handleAction(action)
		if results, ok := action.(statepkg.SearchResultsAction); ok && results.ID == id {
			return
		}
	}
}

func TestTypingSearchesAndAppliesResults(t *testing.T) {
	searcher := &fakeSearcher{}
	app, _ := newTestApp(t, searcher, nil)

	typeKeys(app, "a")
	action := waitAction(t, app)
	results, ok := action.(statepkg.SearchResultsAction)
	if !ok {
		t.Fatalf("expected SearchResultsAction, got %T", action)
	}
	app.handleAction(results)

	if got := app.state.Results.Paths(); len(got) != 2 || got[0] != "dir/a.txt" {
		t.Fatalf("unexpected results %q", got)
	}
	if app.state.Searching {
		t.Fatalf("expected search to be finished")
	}
}

func TestNewQueryCancelsSearchInFlight(t *testing.T) {
	searcher := &fakeSearcher{block: map[string]bool{"a": true}}
	app, _ := newTestApp(t, searcher, nil)

	typeKeys(app, "ab")
	action := waitAction(t, app)
	results, ok := action.(statepkg.SearchResultsAction)
	if !ok || results.ID != 2 {
		t.Fatalf("expected results for the second search, got %#v", action)
	}

	app.workers.Wait()
	queries, cancelled := searcher.snapshot()
	if len(queries) != 2 || cancelled != 1 {
		t.Fatalf("expected the first search cancelled, got queries=%v cancelled=%d", queries, cancelled)
	}
	select {
	case extra := <-app.actionCh:
		t.Fatalf("cancelled search must not report results, got %#v", extra)
	default:
	}
}

func TestStaleResultsDoNotReplaceCurrent(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)
	typeKeys(app, "ab")
	waitResults(t, app, 2)
	app.handleAction(statepkg.SearchResultsAction{ID: 1, Results: searchpkg.ResultSet{{Path: "stale"}}})

	if got := app.state.Results.Paths(); len(got) != 2 || got[0] != "dir/ab.txt" {
		t.Fatalf("expected results for the latest query, got %q", got)
	}
}

func TestClearingQueryDoesNotSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	app, _ := newTestApp(t, searcher, nil)

	typeKeys(app, "a")
	app.handleAction(statepkg.QueryBackspaceAction{})
	app.workers.Wait()

	queries, _ := searcher.snapshot()
	if len(queries) > 1 {
		t.Fatalf("empty query must not reach the searcher, got %v", queries)
	}
	if len(app.state.Results) != 0 || app.state.Query != "" {
		t.Fatalf("expected cleared state, got %+v", app.state)
	}
}

func TestMouseClickSelectsAndDoubleClickActivates(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockLauncher(ctrl)
	release := make(chan struct{})
	launcher.EXPECT().
		Launch(gomock.Any(), "other/x.go").
		DoAndReturn(func(_ context.Context, _ string) launch.Result {
			<-release
			return launch.Result{Outcome: launch.Opened, Path: "/abs/other/x.go"}
		}).
		Times(1)

	app, _ := newTestApp(t, &fakeSearcher{}, launcher)
	app.state.Query = "x"
	app.state.Results = searchpkg.ResultSet{{Path: "dir/x.txt"}, {Path: "other/x.go"}}
	app.renderer.Render(app.state)
	layout, _ := app.renderer.LastLayout()

	click := tcell.NewEventMouse(layout.InnerX+3, layout.ListY+1, tcell.Button1, tcell.ModNone)
	app.handleEvent(click)
	app.handleAction(waitAction(t, app))
	if app.state.SelectedIndex != 1 {
		t.Fatalf("expected click to select row 1, got %d", app.state.SelectedIndex)
	}

	app.handleEvent(click)
	app.handleAction(waitAction(t, app))
	activate := waitAction(t, app)
	if _, ok := activate.(statepkg.ActivateAction); !ok {
		t.Fatalf("expected double-click to activate, got %#v", activate)
	}
	app.handleAction(activate)
	if !app.state.Launching {
		t.Fatalf("expected launch in flight")
	}

	close(release)
	app.handleAction(waitAction(t, app))
	if !app.state.ShouldQuit || app.state.LastOutcome == nil || app.state.LastOutcome.Outcome != launch.Opened {
		t.Fatalf("expected quit after open, got %+v", app.state)
	}
}

func TestClickOutsideRowsIsIgnored(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)
	app.state.Results = searchpkg.ResultSet{{Path: "a"}}
	app.renderer.Render(app.state)
	layout, _ := app.renderer.LastLayout()

	app.handleEvent(tcell.NewEventMouse(layout.InnerX, layout.PromptY, tcell.Button1, tcell.ModNone))
	select {
	case action := <-app.actionCh:
		t.Fatalf("expected no action, got %#v", action)
	default:
	}
}

func TestLaunchFailureStillQuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockLauncher(ctrl)
	release := make(chan struct{})
	launcher.EXPECT().
		Launch(gomock.Any(), "dir/a.txt").
		DoAndReturn(func(_ context.Context, _ string) launch.Result {
			<-release
			return launch.Result{Outcome: launch.Failed, Path: "/abs/dir/a.txt", Err: launch.ErrNoOpener}
		}).
		Times(1)

	app, _ := newTestApp(t, &fakeSearcher{}, launcher)
	app.state.Results = searchpkg.ResultSet{{Path: "dir/a.txt"}}

	app.handleAction(statepkg.ActivateAction{})
	app.handleAction(statepkg.ActivateAction{})
	close(release)

	app.handleAction(waitAction(t, app))
	if !app.state.ShouldQuit || app.state.LastOutcome.Outcome != launch.Failed {
		t.Fatalf("expected quit after failed launch, got %+v", app.state)
	}
}

func TestRunQuitsOnEscape(t *testing.T) {
	app, scr := newTestApp(t, &fakeSearcher{}, nil)

	done := make(chan struct{})
	go func() {
		app.Run()
		close(done)
	}()
	scr.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after Escape")
	}
	if !app.state.ShouldQuit {
		t.Fatalf("expected ShouldQuit")
	}
}

func TestRunLaunchesSelectionOnceAndQuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockLauncher(ctrl)
	launched := make(chan struct{})
	launcher.EXPECT().
		Launch(gomock.Any(), "dir/q.txt").
		DoAndReturn(func(_ context.Context, path string) launch.Result {
			close(launched)
			return launch.Result{Outcome: launch.FellBackToReveal, Path: path}
		}).
		Times(1)

	app, scr := newTestApp(t, &fakeSearcher{}, launcher)

	done := make(chan struct{})
	go func() {
		app.Run()
		close(done)
	}()

	scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	// Enter is ignored until results arrive, so keep pressing it.
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)
	for pressing := true; pressing; {
		select {
		case <-launched:
			pressing = false
		case <-ticker.C:
			scr.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
		case <-deadline:
			t.Fatalf("launcher was never called")
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after the launch finished")
	}
	if app.state.LastOutcome == nil || app.state.LastOutcome.Outcome != launch.FellBackToReveal {
		t.Fatalf("expected recorded outcome, got %+v", app.state.LastOutcome)
	}
}
