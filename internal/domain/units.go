package domain

import "github.com/shopspring/decimal"

// Base units all stored quantities are expressed in
const (
	UnitGram       = "g"
	UnitMilliliter = "ml"
	UnitPiece      = "pc"
)

// IsBaseUnit reports whether unit is one of the three storage units
func IsBaseUnit(unit string) bool {
	switch unit {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// ConversionRule maps a unit onto a base unit: base quantity = quantity * Multiplier
type ConversionRule struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	BaseUnit   string          `json:"baseUnit"`
}

// UnitTables holds the conversion table (unit -> rule) and the normalization table
// (synonym -> canonical unit). Both are treated as read-only after construction.
type UnitTables struct {
	Conversions map[string]ConversionRule
	Synonyms    map[string]string
}

// DefaultUnitTables returns the built-in English unit tables used to seed an empty store
func DefaultUnitTables() *UnitTables {
	rule := func(m string, base string) ConversionRule {
		return ConversionRule{Multiplier: decimal.RequireFromString(m), BaseUnit: base}
	}

	return &UnitTables{
		Conversions: map[string]ConversionRule{
			"mg":    rule("0.001", UnitGram),
			"kg":    rule("1000", UnitGram),
			"lb":    rule("453.592", UnitGram),
			"oz":    rule("28.3495", UnitGram),
			"l":     rule("1000", UnitMilliliter),
			"dl":    rule("100", UnitMilliliter),
			"cl":    rule("10", UnitMilliliter),
			"tsp":   rule("5", UnitMilliliter),
			"tbsp":  rule("15", UnitMilliliter),
			"cup":   rule("240", UnitMilliliter),
			"dozen": rule("12", UnitPiece),
		},
		Synonyms: map[string]string{
			// mass
			"gr": UnitGram, "gram": UnitGram, "grams": UnitGram, "gramme": UnitGram, "grammes": UnitGram,
			"milligram": "mg", "milligrams": "mg",
			"kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg", "kgs": "kg",
			"pound": "lb", "pounds": "lb", "lbs": "lb",
			"ounce": "oz", "ounces": "oz",
			// volume
			"milliliter": UnitMilliliter, "milliliters": UnitMilliliter, "millilitre": UnitMilliliter,
			"millilitres": UnitMilliliter, "mls": UnitMilliliter,
			"liter": "l", "liters": "l", "litre": "l", "litres": "l", "ltr": "l",
			"deciliter": "dl", "deciliters": "dl", "centiliter": "cl", "centiliters": "cl",
			"teaspoon": "tsp", "teaspoons": "tsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
			"cups": "cup",
			// count
			"pcs": UnitPiece, "piece": UnitPiece, "pieces": UnitPiece,
			"ea": UnitPiece, "each": UnitPiece, "unit": UnitPiece, "units": UnitPiece,
			"dozens": "dozen",
		},
	}
}
