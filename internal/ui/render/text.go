package render

import (
	"github.com/gdamore/tcell/v2"

	searchpkg "github.com/kk-code-lab/pluck/internal/search"
	textutil "github.com/kk-code-lab/pluck/internal/textutil"
)

const ellipsis = "…"

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru >= 0 && ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()

		if width == 0 {
			actualWidth := textutil.RuneWidth(ru)
			r.runeWidthCacheMu.Lock()
			r.runeWidthCache[ru] = actualWidth + 1
			r.runeWidthCacheMu.Unlock()
			return actualWidth
		}
		return width - 1
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}

	width := textutil.RuneWidth(ru)
	r.runeWidthWide.Store(ru, width)
	return width
}

// cellWidth is the number of columns drawStyledRune uses for text.
func (r *Renderer) cellWidth(text string) int {
	width := 0
	for _, ru := range text {
		w := r.cachedRuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// cell is one rune of a path as it will be drawn. Replaced control runes
// keep a single cell so match flags stay aligned with the raw path.
type cell struct {
	text  string
	width int
	match bool
}

func (r *Renderer) pathCells(row searchpkg.RenderRow) []cell {
	cells := make([]cell, 0, len(row.Path))
	idx := 0
	for _, ru := range row.Path {
		text := textutil.SafeRune(ru)
		cells = append(cells, cell{
			text:  text,
			width: r.cellWidth(text),
			match: row.Highlighted(idx),
		})
		idx++
	}
	return cells
}

// fitCells elides the middle of cells so the result fits maxWidth columns.
// The ellipsis takes the match style when any elided rune was matched.
func fitCells(cells []cell, maxWidth int) []cell {
	if maxWidth <= 0 {
		return nil
	}
	total := 0
	for _, c := range cells {
		total += c.width
	}
	if total <= maxWidth {
		return cells
	}

	budget := maxWidth - 1
	headBudget := budget / 2

	head := 0
	used := 0
	for head < len(cells) && used+cells[head].width <= headBudget {
		used += cells[head].width
		head++
	}

	tailBudget := budget - used
	tail := len(cells)
	tailUsed := 0
	for tail > head && tailUsed+cells[tail-1].width <= tailBudget {
		tailUsed += cells[tail-1].width
		tail--
	}

	marker := cell{text: ellipsis, width: 1}
	for _, c := range cells[head:tail] {
		if c.match {
			marker.match = true
			break
		}
	}

	out := make([]cell, 0, head+1+len(cells)-tail)
	out = append(out, cells[:head]...)
	out = append(out, marker)
	out = append(out, cells[tail:]...)
	return out
}

func (r *Renderer) drawStyledRune(x, y, maxX int, ru rune, style tcell.Style) int {
	if x >= maxX {
		return x
	}

	width := r.cachedRuneWidth(ru)
	if width <= 0 {
		width = 1
	}
	if x+width > maxX {
		return x
	}

	r.screen.SetContent(x, y, ru, nil, style)
	for w := 1; w < width && x+w < maxX; w++ {
		r.screen.SetContent(x+w, y, ' ', nil, style)
	}
	return x + width
}

func (r *Renderer) drawStyledStringClipped(startX, y, maxX int, text string, style tcell.Style) int {
	x := startX
	for _, ru := range text {
		if x >= maxX {
			break
		}
		next := r.drawStyledRune(x, y, maxX, ru, style)
		if next == x {
			break
		}
		x = next
	}
	return x
}

func (r *Renderer) fill(startX, y, maxX int, style tcell.Style) {
	for x := startX; x < maxX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
