package domain

// Span is a half-open [Start, End) range of character (rune) offsets
// within a field's text. Offsets are rune-based so they stay correct
// for multi-byte text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FieldMatch carries the highlight spans for one searchable field of
// one product. Spans are ascending and non-overlapping.
type FieldMatch struct {
	Field string `json:"field"`
	Spans []Span `json:"ranges"`
}

// HighlightMap maps product id to the field highlights that survived
// filtering. Products absent from the final list are absent here too.
type HighlightMap map[int64][]FieldMatch

// MatchResult is one ranked hit from the search index.
// Score is a normalized edit distance: lower is better, 0 is exact.
type MatchResult struct {
	Product Product
	Score   float64
	Fields  []FieldMatch
}
