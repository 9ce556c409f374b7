package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/pluck/internal/state"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run processes events until the overlay is dismissed.
func (app *Application) Run() {
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-app.ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.quitting() {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	app.CancelSearch()
	app.cancel()
}

func (app *Application) quitting() bool {
	return app.state.ShouldQuit
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		// Quit is delivered as an action; the loop exits once it is reduced.
		app.input.ProcessEvent(ev)
		return false
	case *tcell.EventMouse:
		app.handleMouse(ev)
		return false
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

// handleMouse maps primary clicks on a result row to selection, and a
// second click on the same row to activation.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	layout, ok := app.renderer.LastLayout()
	if !ok {
		return
	}

	x, y := ev.Position()
	row, ok := layout.RowAt(x, y)
	if !ok || row >= len(app.state.Results) {
		return
	}

	now := time.Now()
	doubleClick := app.lastClickRow == row && !app.lastClickTime.IsZero() && now.Sub(app.lastClickTime) <= doubleClickThreshold
	app.lastClickRow = row
	app.lastClickTime = now

	app.actionCh <- statepkg.SelectIndexAction{Index: row}
	if doubleClick {
		app.lastClickTime = time.Time{}
		app.actionCh <- statepkg.ActivateAction{}
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.SuspendAction:
		app.suspendToShell()
		return false
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}
