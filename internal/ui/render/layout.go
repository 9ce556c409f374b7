package render

import searchpkg "github.com/kk-code-lab/pluck/internal/search"

const (
	minBoxWidth = 24
	// top border, prompt, separator, footer, bottom border
	boxChromeRows = 5
)

// Placement positions the overlay relative to the screen.
type Placement struct {
	WidthFraction float64
	TopFraction   float64
}

// DefaultPlacement centres a half-width box a third of the way down.
func DefaultPlacement() Placement {
	return Placement{WidthFraction: 0.5, TopFraction: 0.33}
}

// Layout is the geometry of the last drawn overlay.
type Layout struct {
	X, Y          int
	Width, Height int
	InnerX        int
	InnerWidth    int
	PromptY       int
	ListY         int
	ListRows      int
	FooterY       int
}

// RowAt maps a screen position to a result index.
func (l Layout) RowAt(x, y int) (int, bool) {
	if x < l.InnerX || x >= l.InnerX+l.InnerWidth {
		return 0, false
	}
	if y < l.ListY || y >= l.ListY+l.ListRows {
		return 0, false
	}
	return y - l.ListY, true
}

// ComputeLayout sizes the box for rows results on a w×h screen.
func ComputeLayout(w, h int, placement Placement, rows int) Layout {
	if rows > searchpkg.MaxResults {
		rows = searchpkg.MaxResults
	}
	if rows < 0 {
		rows = 0
	}

	width := int(float64(w)*placement.WidthFraction + 0.5)
	if width < minBoxWidth {
		width = minBoxWidth
	}
	if width > w {
		width = w
	}

	height := boxChromeRows + rows
	if height > h {
		rows -= height - h
		if rows < 0 {
			rows = 0
		}
		height = boxChromeRows + rows
	}

	y := int(float64(h)*placement.TopFraction + 0.5)
	if y+height > h {
		y = h - height
	}
	if y < 0 {
		y = 0
	}

	x := (w - width) / 2
	innerWidth := width - 4 // border plus one column of padding on each side
	if innerWidth < 0 {
		innerWidth = 0
	}

	return Layout{
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		InnerX:     x + 2,
		InnerWidth: innerWidth,
		PromptY:    y + 1,
		ListY:      y + 3,
		ListRows:   rows,
		FooterY:    y + 3 + rows,
	}
}
