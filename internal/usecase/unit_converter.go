package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/fridgebot/backend/internal/domain"
)

// UnitConverter turns (quantity, unit) into a base-unit quantity
type UnitConverter struct {
	conversions map[string]domain.ConversionRule
}

// NewUnitConverter creates a converter over a conversion table keyed by canonical unit
func NewUnitConverter(conversions map[string]domain.ConversionRule) *UnitConverter {
	table := make(map[string]domain.ConversionRule, len(conversions))
	for unit, rule := range conversions {
		table[cleanUnitToken(unit)] = rule
	}
	return &UnitConverter{conversions: table}
}

// Supports reports whether unit is a base unit or has a conversion rule
func (c *UnitConverter) Supports(unit string) bool {
	if domain.IsBaseUnit(unit) {
		return true
	}
	_, ok := c.conversions[unit]
	return ok
}

// Convert applies, in order:
//   - no quantity: (nil, nil)
//   - no unit: the quantity in grams
//   - a base unit: unchanged
//   - a unit with a conversion rule: quantity * multiplier in the rule's base unit
//   - anything else: ErrIncompatibleUnit
func (c *UnitConverter) Convert(quantity *decimal.Decimal, unit *string) (*decimal.Decimal, *string, error) {
	if quantity == nil {
		return nil, nil, nil
	}

	q := *quantity
	if unit == nil {
		return &q, stringPtr(domain.UnitGram), nil
	}

	if domain.IsBaseUnit(*unit) {
		return &q, stringPtr(*unit), nil
	}

	if rule, ok := c.conversions[*unit]; ok {
		converted := q.Mul(rule.Multiplier)
		return &converted, stringPtr(rule.BaseUnit), nil
	}

	return nil, nil, domain.ErrIncompatibleUnit
}

func stringPtr(s string) *string {
	return &s
}
