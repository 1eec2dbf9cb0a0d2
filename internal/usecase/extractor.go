package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fridgebot/backend/internal/domain"
)

// maxQuantityDigits bounds the integer part of a quantity; longer numbers are malformed
const maxQuantityDigits = 12

// QuantityExtractor reads the optional quantity and unit that follow a matched product
type QuantityExtractor struct {
	normalizer *UnitNormalizer
	converter  *UnitConverter
}

// NewQuantityExtractor creates an extractor
func NewQuantityExtractor(normalizer *UnitNormalizer, converter *UnitConverter) *QuantityExtractor {
	return &QuantityExtractor{normalizer: normalizer, converter: converter}
}

// Extract inspects tokens starting at pos. It returns the quantity, the normalized unit
// and how many tokens were consumed. A unit is only read after a quantity.
func (e *QuantityExtractor) Extract(tokens []string, pos int) (*decimal.Decimal, *string, int) {
	if pos >= len(tokens) {
		return nil, nil, 0
	}

	quantity, err := parseQuantity(tokens[pos])
	if err != nil {
		return nil, nil, 0
	}
	consumed := 1

	if pos+1 < len(tokens) {
		if unit, ok := e.unit(tokens[pos+1]); ok {
			return &quantity, &unit, consumed + 1
		}
	}

	return &quantity, nil, consumed
}

// unit accepts a token when normalization changes it, or when it is a base unit or a unit
// with a conversion rule
func (e *QuantityExtractor) unit(token string) (string, bool) {
	canonical, known := e.normalizer.Lookup(token)
	if canonical == "" {
		return "", false
	}
	if known || e.converter.Supports(canonical) {
		return canonical, true
	}
	return "", false
}

// parseQuantity parses a non-negative decimal accepting "." or "," as separator.
// Non-numeric tokens and numbers too large to be a quantity yield ErrMalformedQuantity.
func parseQuantity(token string) (decimal.Decimal, error) {
	if !isNumeric(token) {
		return decimal.Zero, domain.ErrMalformedQuantity
	}

	normalized := strings.Replace(token, ",", ".", 1)
	intPart := normalized
	if idx := strings.IndexByte(normalized, '.'); idx >= 0 {
		intPart = normalized[:idx]
	}
	if len(strings.TrimLeft(intPart, "0")) > maxQuantityDigits {
		return decimal.Zero, domain.ErrMalformedQuantity
	}

	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}
	if strings.HasSuffix(normalized, ".") {
		normalized += "0"
	}

	q, err := decimal.NewFromString(normalized)
	if err != nil || q.IsNegative() {
		return decimal.Zero, domain.ErrMalformedQuantity
	}
	return q, nil
}
