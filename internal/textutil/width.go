package textutil

import "github.com/mattn/go-runewidth"

const ellipsis = "…"

// RuneWidth reports the terminal columns taken by r, never less than zero.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// cellWidth is the width a rune occupies when drawn into its own cell:
// zero-width runes still take one column.
func cellWidth(r rune) int {
	if w := RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += cellWidth(ru)
	}
	return width
}

// Truncate shortens text to fit maxWidth columns, ending with an ellipsis
// when anything was cut. Widths follow DisplayWidth.
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if DisplayWidth(text) <= maxWidth {
		return text
	}

	budget := maxWidth - DisplayWidth(ellipsis)
	if budget < 0 {
		return ""
	}
	out := make([]rune, 0, maxWidth)
	used := 0
	for _, ru := range text {
		w := cellWidth(ru)
		if used+w > budget {
			break
		}
		out = append(out, ru)
		used += w
	}
	return string(out) + ellipsis
}
