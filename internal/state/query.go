package state

import "unicode"

func isSearchWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func previousWordBoundary(runes []rune, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	i := pos - 1
	for i >= 0 && !isSearchWordChar(runes[i]) {
		i--
	}
	for i >= 0 && isSearchWordChar(runes[i]) {
		i--
	}
	return i + 1
}

func nextWordBoundary(runes []rune, pos int) int {
	if pos >= len(runes) {
		return len(runes)
	}
	if pos < 0 {
		pos = 0
	}

	i := pos
	for i < len(runes) && !isSearchWordChar(runes[i]) {
		i++
	}
	for i < len(runes) && isSearchWordChar(runes[i]) {
		i++
	}
	return i
}

func clampCursor(cursor, length int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > length {
		return length
	}
	return cursor
}
