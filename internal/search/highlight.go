package search

import "unicode"

// Annotate returns one highlight flag per rune of text.
//
// Every case-insensitive occurrence of query inside text is marked. When
// query does not occur contiguously anywhere, each rune of text whose
// lower-case form appears somewhere in query is marked instead.
func Annotate(text, query string) []bool {
	target := lowerRunes(text)
	spans := make([]bool, len(target))
	if len(target) == 0 {
		return spans
	}

	pattern := lowerRunes(query)
	if markExactRuns(target, pattern, spans) {
		return spans
	}
	markQueryRunes(target, pattern, spans)
	return spans
}

func markExactRuns(target, pattern []rune, spans []bool) bool {
	if len(pattern) == 0 || len(pattern) > len(target) {
		return false
	}

	found := false
	for i := 0; i <= len(target)-len(pattern); i++ {
		if !runesEqualAt(target, pattern, i) {
			continue
		}
		for j := range pattern {
			spans[i+j] = true
		}
		found = true
	}
	return found
}

func runesEqualAt(target, pattern []rune, offset int) bool {
	for j, ru := range pattern {
		if target[offset+j] != ru {
			return false
		}
	}
	return true
}

func markQueryRunes(target, pattern []rune, spans []bool) {
	if len(pattern) == 0 {
		return
	}
	set := make(map[rune]struct{}, len(pattern))
	for _, ru := range pattern {
		set[ru] = struct{}{}
	}
	for idx, ru := range target {
		if _, ok := set[ru]; ok {
			spans[idx] = true
		}
	}
}

// lowerRunes lower-cases rune by rune so positions stay aligned with the
// original string (strings.ToLower may change the rune count).
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, ru := range runes {
		runes[i] = unicode.ToLower(ru)
	}
	return runes
}
