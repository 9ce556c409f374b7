package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/pluck/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action

	// Keys between paste start and end are collected instead of acted on,
	// so a pasted newline never activates a row.
	pasting bool
	pasted  []rune
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event ends the session.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ih.pasting {
			ih.collectPasted(ev)
			return true
		}
		return ih.processKeyEvent(ev)
	case *tcell.EventPaste:
		ih.processPaste(ev)
		return true
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	alt := ev.Modifiers()&tcell.ModAlt != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}

	case tcell.KeyUp, tcell.KeyBacktab, tcell.KeyCtrlP:
		ih.actionChan <- statepkg.NavigateAction{Delta: -1}

	case tcell.KeyDown, tcell.KeyTab, tcell.KeyCtrlN:
		ih.actionChan <- statepkg.NavigateAction{Delta: 1}

	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.NavigateAction{Delta: -statepkg.PageSize}

	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.NavigateAction{Delta: statepkg.PageSize}

	case tcell.KeyEnter:
		ih.actionChan <- statepkg.ActivateAction{}

	case tcell.KeyLeft:
		if alt || ev.Modifiers()&tcell.ModCtrl != 0 {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "word-left"}
		} else {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "left"}
		}

	case tcell.KeyRight:
		if alt || ev.Modifiers()&tcell.ModCtrl != 0 {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "word-right"}
		} else {
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "right"}
		}

	case tcell.KeyHome, tcell.KeyCtrlA:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "home"}

	case tcell.KeyEnd, tcell.KeyCtrlE:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "end"}

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if alt {
			ih.actionChan <- statepkg.QueryDeleteWordAction{}
		} else {
			ih.actionChan <- statepkg.QueryBackspaceAction{}
		}

	case tcell.KeyDelete, tcell.KeyCtrlD:
		ih.actionChan <- statepkg.QueryDeleteAction{}

	case tcell.KeyCtrlW:
		ih.actionChan <- statepkg.QueryDeleteWordAction{}

	case tcell.KeyCtrlU:
		ih.actionChan <- statepkg.QueryResetAction{}

	case tcell.KeyRune:
		return ih.processRune(ev)
	}
	return true
}

func (ih *InputHandler) processRune(ev *tcell.EventKey) bool {
	r := ev.Rune()
	// Some terminals report Ctrl+letter as a rune with the Ctrl modifier.
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		switch unicode.ToLower(r) {
		case 'c':
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case 'a':
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "home"}
		case 'e':
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "end"}
		case 'w':
			ih.actionChan <- statepkg.QueryDeleteWordAction{}
		case 'u':
			ih.actionChan <- statepkg.QueryResetAction{}
		}
		return true
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		switch r {
		case 'b', 'B':
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "word-left"}
		case 'f', 'F':
			ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "word-right"}
		}
		return true
	}
	if !unicode.IsPrint(r) && !unicode.Is(unicode.Mn, r) {
		return true
	}
	ih.actionChan <- statepkg.QueryCharAction{Char: r}
	return true
}

func (ih *InputHandler) processPaste(ev *tcell.EventPaste) {
	if ev.Start() {
		ih.pasting = true
		ih.pasted = ih.pasted[:0]
		return
	}
	if !ih.pasting {
		return
	}
	ih.pasting = false
	if len(ih.pasted) > 0 {
		ih.actionChan <- statepkg.QueryInsertAction{Text: string(ih.pasted)}
	}
	ih.pasted = ih.pasted[:0]
}

func (ih *InputHandler) collectPasted(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsPrint(r) || unicode.Is(unicode.Mn, r) {
			ih.pasted = append(ih.pasted, r)
		}
	case tcell.KeyTab:
		ih.pasted = append(ih.pasted, ' ')
	}
}
