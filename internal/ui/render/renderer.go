package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	fsutil "github.com/kk-code-lab/pluck/internal/fs"
	searchpkg "github.com/kk-code-lab/pluck/internal/search"
	statepkg "github.com/kk-code-lab/pluck/internal/state"
	textutil "github.com/kk-code-lab/pluck/internal/textutil"
)

const (
	promptText      = "❯ "
	placeholderText = "(type to search)"
	cursorRune      = '█'
	selectedMarker  = "▶ "
	title           = " pluck "
)

// Renderer draws the search overlay. It reads only AppState and the
// per-rune match flags on each row.
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	placement        Placement
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes

	layoutMu   sync.RWMutex
	lastLayout Layout
	hasLayout  bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen:    screen,
		theme:     GetColorTheme(),
		placement: DefaultPlacement(),
	}
}

// SetPlacement overrides where the box is drawn.
func (r *Renderer) SetPlacement(p Placement) {
	if p.WidthFraction <= 0 || p.WidthFraction > 1 {
		p.WidthFraction = DefaultPlacement().WidthFraction
	}
	if p.TopFraction < 0 || p.TopFraction >= 1 {
		p.TopFraction = DefaultPlacement().TopFraction
	}
	r.placement = p
}

// LastLayout returns the geometry used by the previous Render.
func (r *Renderer) LastLayout() (Layout, bool) {
	r.layoutMu.RLock()
	defer r.layoutMu.RUnlock()
	return r.lastLayout, r.hasLayout
}

// Render draws the overlay for state.
func (r *Renderer) Render(state *statepkg.AppState) {
	if state == nil {
		return
	}
	r.screen.Clear()

	w, h := r.screen.Size()
	layout := ComputeLayout(w, h, r.placement, len(state.Results))
	r.layoutMu.Lock()
	r.lastLayout = layout
	r.hasLayout = true
	r.layoutMu.Unlock()

	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)

	r.drawBox(layout, base)
	r.drawPrompt(state, layout, base)
	for i := 0; i < layout.ListRows && i < len(state.Results); i++ {
		r.drawRow(state.Results[i], i == state.SelectedIndex, layout, layout.ListY+i, base)
	}
	r.drawFooter(state, layout, base)

	r.screen.Show()
}

func (r *Renderer) drawBox(layout Layout, base tcell.Style) {
	if layout.Width < 2 || layout.Height < 2 {
		return
	}
	border := base.Foreground(r.theme.BorderFg)
	left := layout.X
	right := layout.X + layout.Width - 1
	top := layout.Y
	bottom := layout.Y + layout.Height - 1
	separator := layout.PromptY + 1

	for y := top; y <= bottom; y++ {
		switch y {
		case top:
			r.horizontal(left, right, y, '╭', '─', '╮', border)
		case bottom:
			r.horizontal(left, right, y, '╰', '─', '╯', border)
		case separator:
			r.horizontal(left, right, y, '├', '─', '┤', border)
		default:
			r.screen.SetContent(left, y, '│', nil, border)
			r.screen.SetContent(right, y, '│', nil, border)
			r.fill(left+1, y, right, base)
		}
	}

	titleStyle := base.Foreground(r.theme.TitleFg).Bold(true)
	r.drawStyledStringClipped(left+2, top, right-1, title, titleStyle)
}

func (r *Renderer) horizontal(left, right, y int, start, mid, end rune, style tcell.Style) {
	r.screen.SetContent(left, y, start, nil, style)
	for x := left + 1; x < right; x++ {
		r.screen.SetContent(x, y, mid, nil, style)
	}
	r.screen.SetContent(right, y, end, nil, style)
}

func (r *Renderer) drawPrompt(state *statepkg.AppState, layout Layout, base tcell.Style) {
	y := layout.PromptY
	maxX := layout.InnerX + layout.InnerWidth
	promptStyle := base.Foreground(r.theme.PromptFg).Bold(true)
	x := r.drawStyledStringClipped(layout.InnerX, y, maxX, promptText, promptStyle)

	cells, cursor, atEnd := r.queryCells(state.Query, state.CursorPos)
	start := visibleStart(cells, cursor, maxX-x)

	cursorStyle := base.Reverse(true)
	if atEnd {
		cursorStyle = base.Foreground(r.theme.PromptFg)
	}

	for idx := start; idx < len(cells); idx++ {
		c := cells[idx]
		if x+c.width > maxX {
			break
		}
		style := base
		if idx == cursor {
			style = cursorStyle
		}
		x = r.drawStyledStringClipped(x, y, maxX, c.text, style)
	}

	if state.Query == "" && x < maxX {
		placeholder := base.Foreground(r.theme.PlaceholderFg).Italic(true)
		r.drawStyledStringClipped(x+1, y, maxX, placeholderText, placeholder)
	}
}

// queryCells returns the query as cells plus the index of the cell under
// the cursor. A cursor at the end gets its own block cell.
func (r *Renderer) queryCells(query string, cursorPos int) ([]cell, int, bool) {
	runes := []rune(query)
	if cursorPos < 0 {
		cursorPos = 0
	}
	if cursorPos > len(runes) {
		cursorPos = len(runes)
	}

	cells := make([]cell, 0, len(runes)+1)
	for _, ru := range runes {
		text := textutil.SafeRune(ru)
		cells = append(cells, cell{text: text, width: r.cellWidth(text)})
	}
	atEnd := cursorPos == len(runes)
	if atEnd {
		cells = append(cells, cell{text: string(cursorRune), width: 1})
	}
	return cells, cursorPos, atEnd
}

// visibleStart scrolls the query so the cursor cell stays inside width.
func visibleStart(cells []cell, cursor, width int) int {
	if cursor >= len(cells) {
		cursor = len(cells) - 1
	}
	start := 0
	for start < cursor {
		used := 0
		for _, c := range cells[start : cursor+1] {
			used += c.width
		}
		if used <= width {
			break
		}
		start++
	}
	return start
}

func (r *Renderer) drawRow(row searchpkg.RenderRow, selected bool, layout Layout, y int, base tcell.Style) {
	style := base
	if fsutil.IsHiddenPath(row.Path) {
		style = style.Foreground(r.theme.HiddenFg)
	}
	if selected {
		style = base.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}
	matchStyle := style.Foreground(r.theme.MatchFg).Bold(true)

	maxX := layout.InnerX + layout.InnerWidth
	r.fill(layout.InnerX-1, y, maxX+1, style)

	marker := "  "
	if selected {
		marker = selectedMarker
	}
	x := r.drawStyledStringClipped(layout.InnerX, y, maxX, marker, style)

	for _, c := range fitCells(r.pathCells(row), maxX-x) {
		cellStyle := style
		if c.match {
			cellStyle = matchStyle
		}
		x = r.drawStyledStringClipped(x, y, maxX, c.text, cellStyle)
	}
}

func (r *Renderer) drawFooter(state *statepkg.AppState, layout Layout, base tcell.Style) {
	y := layout.FooterY
	maxX := layout.InnerX + layout.InnerWidth

	hints := footerHints(state)
	hintsWidth := r.cellWidth(hints)
	hintsX := maxX - hintsWidth

	status, isError := footerStatus(state)
	statusStyle := base.Foreground(r.theme.FooterFg)
	if isError {
		statusStyle = base.Foreground(r.theme.ErrorFg)
	}

	statusMax := maxX
	if hintsX > layout.InnerX+minBoxWidth/2 {
		statusMax = hintsX - 1
	}
	status = textutil.Truncate(textutil.SanitizeTerminalText(status), statusMax-layout.InnerX)
	r.drawStyledStringClipped(layout.InnerX, y, statusMax, status, statusStyle)

	if statusMax < maxX {
		r.drawStyledStringClipped(hintsX, y, maxX, hints, base.Foreground(r.theme.FooterFg))
	}
}
