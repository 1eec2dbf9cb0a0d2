package usecase

import (
	"strings"
	"unicode"
)

// UnitNormalizer maps raw unit tokens and synonyms onto canonical unit codes
type UnitNormalizer struct {
	synonyms map[string]string
}

// NewUnitNormalizer creates a normalizer over a synonym table. Keys are matched
// case-insensitively.
func NewUnitNormalizer(synonyms map[string]string) *UnitNormalizer {
	table := make(map[string]string, len(synonyms))
	for raw, canonical := range synonyms {
		table[cleanUnitToken(raw)] = strings.ToLower(strings.TrimSpace(canonical))
	}
	return &UnitNormalizer{synonyms: table}
}

// Normalize lowercases the token, strips trailing punctuation and resolves synonyms.
// Unknown tokens are returned cleaned but otherwise unchanged.
func (n *UnitNormalizer) Normalize(raw string) string {
	canonical, _ := n.Lookup(raw)
	return canonical
}

// Lookup is Normalize that also reports whether the synonym table knew the token
func (n *UnitNormalizer) Lookup(raw string) (string, bool) {
	cleaned := cleanUnitToken(raw)
	if canonical, ok := n.synonyms[cleaned]; ok {
		return canonical, true
	}
	return cleaned, false
}

func cleanUnitToken(raw string) string {
	return strings.TrimRightFunc(strings.ToLower(strings.TrimSpace(raw)), unicode.IsPunct)
}
