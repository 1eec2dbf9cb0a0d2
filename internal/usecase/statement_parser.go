package usecase

import (
	"strings"

	"github.com/fridgebot/backend/internal/domain"
)

// StatementParser turns free text into parsed items against one catalog snapshot.
// It holds no mutable state and is safe for concurrent use.
type StatementParser struct {
	tokenizer *Tokenizer
	matcher   *CatalogMatcher
	extractor *QuantityExtractor
}

// NewStatementParser creates a parser over a catalog and unit tables
func NewStatementParser(catalog *domain.Catalog, units *domain.UnitTables, cutoff float64) *StatementParser {
	if units == nil {
		units = &domain.UnitTables{}
	}
	keys := catalog.Keys()
	return &StatementParser{
		tokenizer: NewTokenizer(keys),
		matcher:   NewCatalogMatcher(keys, cutoff),
		extractor: NewQuantityExtractor(NewUnitNormalizer(units.Synonyms), NewUnitConverter(units.Conversions)),
	}
}

// ParseStatement parses text against a bare set of catalog keys with the default unit tables
func ParseStatement(text string, catalogKeys []string, cutoff float64) []domain.ParsedItem {
	entries := make([]domain.CatalogEntry, 0, len(catalogKeys))
	for i, key := range catalogKeys {
		entries = append(entries, domain.CatalogEntry{ID: int64(i + 1), Name: key})
	}
	parser := NewStatementParser(domain.NewCatalog(entries), domain.DefaultUnitTables(), cutoff)
	return parser.Parse(text).Items
}

// Parse walks the token stream: at each position it tries to match a product, reads the
// quantity and unit after a match, and otherwise discards one token as noise. Consecutive
// discarded words are reported together as one unrecognized phrase.
func (p *StatementParser) Parse(text string) domain.ParseResult {
	tokens := p.tokenizer.Tokenize(text)
	result := domain.ParseResult{Items: []domain.ParsedItem{}}

	var noise []string
	flush := func() {
		if len(noise) > 0 {
			result.Unrecognized = append(result.Unrecognized, strings.Join(noise, " "))
			noise = nil
		}
	}

	for i := 0; i < len(tokens); {
		match, ok := p.matcher.Match(tokens, i)
		if !ok {
			if isNumeric(tokens[i]) {
				flush()
			} else {
				noise = append(noise, tokens[i])
			}
			i++
			continue
		}
		flush()
		i += match.Span

		quantity, unit, consumed := p.extractor.Extract(tokens, i)
		i += consumed

		result.Items = append(result.Items, domain.ParsedItem{
			ProductKey: match.Key,
			Quantity:   quantity,
			Unit:       unit,
		})
	}
	flush()

	return result
}
