package search

// MaxResults caps the number of rows shown for a single query.
const MaxResults = 10

// RenderRow pairs a raw candidate path with its highlight flags.
// Path is kept byte-for-byte as emitted by the finder; activation uses it.
type RenderRow struct {
	Path  string
	Spans []bool
}

// Highlighted reports whether the rune at idx is highlighted.
func (r RenderRow) Highlighted(idx int) bool {
	return idx >= 0 && idx < len(r.Spans) && r.Spans[idx]
}

// ResultSet is the ordered list of rows for one query, at most MaxResults long.
type ResultSet []RenderRow

// Paths returns the raw candidate paths in rank order.
func (rs ResultSet) Paths() []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, row := range rs {
		out[i] = row.Path
	}
	return out
}

func (rs ResultSet) clone() ResultSet {
	if rs == nil {
		return nil
	}
	out := make(ResultSet, len(rs))
	for i, row := range rs {
		spans := make([]bool, len(row.Spans))
		copy(spans, row.Spans)
		out[i] = RenderRow{Path: row.Path, Spans: spans}
	}
	return out
}
