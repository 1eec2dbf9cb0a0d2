package usecase

import (
	"strings"
	"unicode/utf8"
)

// DefaultCutoff is the similarity a span must reach to be accepted as a product
const DefaultCutoff = 85.0

// MinCutoff is the lowest cutoff accepted; anything lower produces false positives
// on short unrelated words
const MinCutoff = 60.0

// scoreEpsilon absorbs float rounding in the pruning bounds
const scoreEpsilon = 1e-9

// Match is an accepted product span
type Match struct {
	Key   string
	Span  int
	Score float64
}

// CatalogMatcher resolves token spans to catalog keys by fuzzy name similarity
type CatalogMatcher struct {
	keys      []string
	keyLens   []int
	maxKeyLen int
	cutoff    float64
}

// NewCatalogMatcher creates a matcher. Keys are scanned in the given order, which decides
// ties. A cutoff outside [MinCutoff, 100] is replaced with DefaultCutoff.
func NewCatalogMatcher(keys []string, cutoff float64) *CatalogMatcher {
	if cutoff < MinCutoff || cutoff > 100 {
		cutoff = DefaultCutoff
	}

	m := &CatalogMatcher{
		keys:    make([]string, 0, len(keys)),
		keyLens: make([]int, 0, len(keys)),
		cutoff:  cutoff,
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		n := utf8.RuneCountInString(key)
		m.keys = append(m.keys, key)
		m.keyLens = append(m.keyLens, n)
		m.maxKeyLen = max(m.maxKeyLen, n)
	}

	return m
}

// Cutoff returns the effective cutoff
func (m *CatalogMatcher) Cutoff() float64 {
	return m.cutoff
}

// Match tries to start a product at tokens[start]. The candidate grows one token at a time
// until a purely numeric token or the end of the stream; the best scoring span of any length
// wins and is accepted when it reaches the cutoff. The returned Match holds the best span
// even when ok is false.
func (m *CatalogMatcher) Match(tokens []string, start int) (Match, bool) {
	best := Match{Score: -1}
	if start >= len(tokens) || isNumeric(tokens[start]) || len(m.keys) == 0 {
		return best, false
	}

	// No key can reach the cutoff against a candidate longer than this
	maxCandidateLen := float64(m.maxKeyLen) * (200/m.cutoff - 1)

	var candidate strings.Builder
	for j := start; j < len(tokens); j++ {
		if j > start {
			if isNumeric(tokens[j]) {
				break
			}
			candidate.WriteByte(' ')
		}
		candidate.WriteString(tokens[j])

		text := candidate.String()
		textLen := utf8.RuneCountInString(text)
		if float64(textLen) > maxCandidateLen+scoreEpsilon {
			break
		}

		for idx, key := range m.keys {
			if similarityUpperBound(textLen, m.keyLens[idx]) < m.cutoff-scoreEpsilon {
				continue
			}
			if score := Similarity(text, key); score > best.Score {
				best = Match{Key: key, Span: j - start + 1, Score: score}
			}
		}
	}

	return best, best.Score >= m.cutoff
}
