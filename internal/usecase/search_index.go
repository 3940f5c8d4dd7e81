package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/floramarket/storefront/internal/domain"
)

// DefaultSearchThreshold is the maximum normalized edit distance at
// which a field still counts as a match.
const DefaultSearchThreshold = 0.35

// searchFields are the product fields indexed by default.
var searchFields = []string{"name", "category", "desc"}

// SearchConfig holds configuration for the search index.
type SearchConfig struct {
	Threshold float64
	Fields    []string
}

type fieldDoc struct {
	name string
	text []rune // normalized, offset-compatible with the original
}

type searchDocument struct {
	product domain.Product
	fields  []fieldDoc
}

// SearchIndex is a fuzzy multi-field matcher over one catalog
// snapshot. Building is pure (no I/O); querying has no side effects.
// Rebuild the index whenever the product set changes.
type SearchIndex struct {
	threshold float64
	docs      []searchDocument
}

// NewSearchIndex builds one search document per product.
func NewSearchIndex(products []domain.Product, config SearchConfig) *SearchIndex {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = DefaultSearchThreshold
	}
	fields := config.Fields
	if len(fields) == 0 {
		fields = searchFields
	}

	docs := make([]searchDocument, 0, len(products))
	for _, p := range products {
		doc := searchDocument{product: p}
		for _, field := range fields {
			doc.fields = append(doc.fields, fieldDoc{
				name: field,
				text: normalizeRunes(fieldText(p, field)),
			})
		}
		docs = append(docs, doc)
	}

	return &SearchIndex{threshold: threshold, docs: docs}
}

// Query matches text against every document.
//
// An empty or whitespace-only query returns the whole catalog in
// original order with no highlights and no ranking. Otherwise results
// are the documents whose best field distance stays within the
// threshold, sorted ascending by score; ties keep catalog order.
func (idx *SearchIndex) Query(text string) []domain.MatchResult {
	pattern := normalizeRunes(strings.TrimSpace(text))
	if len(pattern) == 0 {
		results := make([]domain.MatchResult, 0, len(idx.docs))
		for _, doc := range idx.docs {
			results = append(results, domain.MatchResult{Product: doc.product})
		}
		return results
	}

	var results []domain.MatchResult
	for _, doc := range idx.docs {
		best := -1.0
		var fields []domain.FieldMatch
		for _, field := range doc.fields {
			score, spans, ok := matchField(pattern, field.text, idx.threshold)
			if !ok {
				continue
			}
			fields = append(fields, domain.FieldMatch{Field: field.name, Spans: spans})
			if best < 0 || score < best {
				best = score
			}
		}
		if best < 0 {
			continue
		}
		results = append(results, domain.MatchResult{
			Product: doc.product,
			Score:   best,
			Fields:  fields,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// matchField computes the bounded normalized substring edit distance
// of pattern within text and, when it passes the threshold, the merged
// highlight spans of the matching regions.
//
// The DP allows a match to begin at any text position (first row is
// zero), so dp[m][j] is the cheapest edit cost of aligning the whole
// pattern against some substring of text ending at rune offset j.
func matchField(pattern, text []rune, threshold float64) (float64, []domain.Span, bool) {
	m, n := len(pattern), len(text)
	if m == 0 || n == 0 {
		return 0, nil, false
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			dp[i][j] = minOf(
				dp[i-1][j]+1,
				dp[i][j-1]+1,
				dp[i-1][j-1]+cost,
			)
		}
	}

	minDist := dp[m][0]
	for j := 1; j <= n; j++ {
		if dp[m][j] < minDist {
			minDist = dp[m][j]
		}
	}

	score := float64(minDist) / float64(m)
	if score > threshold {
		return 0, nil, false
	}

	spans := matchSpans(dp, pattern, text, threshold)
	return score, spans, true
}

// matchSpans collects every local minimum of the final DP row that
// stays within the threshold, reconstructs the start of each matching
// region by traceback, and merges adjacent or overlapping ranges.
func matchSpans(dp [][]int, pattern, text []rune, threshold float64) []domain.Span {
	m, n := len(pattern), len(text)
	last := dp[m]

	var spans []domain.Span
	for j := 1; j <= n; j++ {
		if float64(last[j])/float64(m) > threshold {
			continue
		}
		if last[j] > last[j-1] {
			continue
		}
		if j < n && last[j] > last[j+1] {
			continue
		}
		spans = append(spans, domain.Span{Start: traceStart(dp, pattern, text, j), End: j})
	}

	return mergeSpans(spans)
}

// traceStart walks the DP matrix back from (len(pattern), end) to the
// text offset where the matching region begins. Diagonal moves are
// preferred so spans stay as tight as the alignment allows.
func traceStart(dp [][]int, pattern, text []rune, end int) int {
	i, j := len(pattern), end
	for i > 0 {
		cost := 1
		if j > 0 && pattern[i-1] == text[j-1] {
			cost = 0
		}
		switch {
		case j > 0 && dp[i][j] == dp[i-1][j-1]+cost:
			i--
			j--
		case dp[i][j] == dp[i-1][j]+1:
			i--
		default:
			j--
		}
	}
	return j
}

func mergeSpans(spans []domain.Span) []domain.Span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})

	merged := spans[:1]
	for _, span := range spans[1:] {
		tail := &merged[len(merged)-1]
		if span.Start <= tail.End {
			if span.End > tail.End {
				tail.End = span.End
			}
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

// normalizeRunes lowercases rune-by-rune so offsets into the
// normalized text stay valid for the original string.
func normalizeRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func fieldText(p domain.Product, field string) string {
	switch field {
	case "name":
		return p.Name
	case "category":
		return p.Category
	case "desc":
		return p.Desc
	default:
		return ""
	}
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
