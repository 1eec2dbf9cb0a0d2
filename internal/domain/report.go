package domain

import "github.com/shopspring/decimal"

// ItemOutcome describes what happened to one statement item
type ItemOutcome struct {
	ProductKey    string           `json:"product"`
	DisplayName   string           `json:"displayName,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	Delta         *decimal.Decimal `json:"delta,omitempty"`
	FullyConsumed bool             `json:"fullyConsumed,omitempty"`
}

// AddReport is the result of applying an add statement
type AddReport struct {
	Added            []ItemOutcome `json:"added"`
	Updated          []ItemOutcome `json:"updated"`
	Invalid          []ItemOutcome `json:"invalid"`
	IncompatibleUnit []ItemOutcome `json:"incompatibleUnit"`
}

// RemoveReport is the result of applying a remove statement
type RemoveReport struct {
	Removed          []ItemOutcome `json:"removed"`
	Reduced          []ItemOutcome `json:"reduced"`
	NotFound         []ItemOutcome `json:"notFound"`
	Invalid          []ItemOutcome `json:"invalid"`
	CannotSubtract   []ItemOutcome `json:"cannotSubtract"`
	IncompatibleUnit []ItemOutcome `json:"incompatibleUnit"`
}

// ConsumeReport is the result of deducting the ingredients of a cooked dish
type ConsumeReport struct {
	Depleted []ItemOutcome `json:"depleted"`
	Reduced  []ItemOutcome `json:"reduced"`
	Skipped  []ItemOutcome `json:"skipped"`
}
