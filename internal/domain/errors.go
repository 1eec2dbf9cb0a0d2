package domain

import "errors"

var (
	// ErrUnrecognizedProduct is returned when a span never reaches the match cutoff
	// or the resolved name is absent from the catalog
	ErrUnrecognizedProduct = errors.New("product not found in catalog")

	// ErrIncompatibleUnit is returned when a quantity carries a unit that cannot be
	// converted into a base unit
	ErrIncompatibleUnit = errors.New("incompatible unit")

	// ErrMalformedQuantity is returned when a numeric-looking token cannot be parsed
	ErrMalformedQuantity = errors.New("malformed quantity")

	// ErrEmptyStatement is returned when a statement resolves to zero items
	ErrEmptyStatement = errors.New("statement contains no recognized products")

	// ErrCannotSubtractUnspecified is returned when a quantity is removed from a record
	// whose stored amount is unknown
	ErrCannotSubtractUnspecified = errors.New("cannot subtract from unspecified amount")

	// ErrStorageUnavailable is returned when the inventory store cannot be reached
	// within the configured timeout and retries
	ErrStorageUnavailable = errors.New("inventory storage unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogNotLoaded is returned when the catalog snapshot has not been loaded yet
	ErrCatalogNotLoaded = errors.New("catalog snapshot not loaded")

	// ErrLockTimeout is returned when the per-user reconciliation lock cannot be acquired
	ErrLockTimeout = errors.New("timed out waiting for user inventory lock")
)
