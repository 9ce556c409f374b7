//go:build !windows

package app

import (
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// stopProcess stops only this process so a wrapping shell keeps job control.
var stopProcess = func() error {
	return syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// suspendToShell hands the terminal back and stops the process. The screen
// is resumed by the SIGCONT handler in the loop, not here.
func (app *Application) suspendToShell() {
	_ = app.screen.Suspend()
	app.suspended = true
	if err := stopProcess(); err != nil {
		app.logger.Debug().Err(err).Msg("stop after suspend failed")
	}
}

func (app *Application) resumeAfterStop() bool {
	if app.suspended {
		if err := app.screen.Resume(); err != nil {
			app.logger.Debug().Err(err).Msg("resume after stop failed")
			return false
		}
		app.suspended = false
		app.screen.EnableMouse()
		app.screen.EnablePaste()
	}
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.state.ScreenWidth = w
		app.state.ScreenHeight = h
	}
	return true
}
