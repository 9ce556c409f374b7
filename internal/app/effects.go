package app

import (
	"context"

	"github.com/kk-code-lab/pluck/internal/launch"
	statepkg "github.com/kk-code-lab/pluck/internal/state"
)

// StartSearch runs query in the background, superseding any search still in
// flight. Results travel back through the action channel tagged with id so
// the reducer can drop stale ones.
func (app *Application) StartSearch(id int, query string) {
	if app.searcher == nil {
		return
	}

	app.searchMu.Lock()
	if app.searchCancel != nil {
		app.searchCancel()
	}
	ctx, cancel := context.WithCancel(app.ctx)
	app.searchCancel = cancel
	app.searchMu.Unlock()

	app.workers.Add(1)
	go func() {
		defer app.workers.Done()
		defer cancel()

		rows := app.searcher.Search(ctx, query)
		if ctx.Err() != nil {
			return
		}
		app.dispatch(statepkg.SearchResultsAction{ID: id, Results: rows})
	}()
}

// CancelSearch stops the search in flight, if any.
func (app *Application) CancelSearch() {
	app.searchMu.Lock()
	defer app.searchMu.Unlock()
	if app.searchCancel != nil {
		app.searchCancel()
		app.searchCancel = nil
	}
}

// StartLaunch opens path in the background. Exactly one outcome is
// reported per call.
func (app *Application) StartLaunch(path string) {
	if app.launcher == nil {
		app.dispatch(statepkg.LaunchFinishedAction{Result: launch.Result{
			Outcome: launch.Failed,
			Path:    path,
			Err:     launch.ErrNoOpener,
		}})
		return
	}

	app.workers.Add(1)
	go func() {
		defer app.workers.Done()

		result := app.launcher.Launch(app.ctx, path)
		app.logger.Info().Str("path", path).Stringer("outcome", result.Outcome).Msg("launch finished")
		app.dispatch(statepkg.LaunchFinishedAction{Result: result})
	}()
}

func (app *Application) dispatch(action statepkg.Action) {
	select {
	case app.actionCh <- action:
	case <-app.ctx.Done():
	}
}
