package domain

import "context"

// CatalogRepository loads the read-only reference data
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) ([]CatalogEntry, error)
	LoadConversionTable(ctx context.Context) (map[string]ConversionRule, error)
	LoadNormalizationTable(ctx context.Context) (map[string]string, error)
	LoadEquipment(ctx context.Context) ([]EquipmentEntry, error)
}

// InventoryRepository defines persistence of per-user inventory records
type InventoryRepository interface {
	GetInventorySnapshot(ctx context.Context, userID int64) (Inventory, error)
	UpsertBatch(ctx context.Context, userID int64, rows []InventoryUpsert) error
	DeleteBatch(ctx context.Context, userID int64, productIDs []int64) error
}

// EquipmentRepository persists the kitchen equipment each user owns
type EquipmentRepository interface {
	GetUserEquipment(ctx context.Context, userID int64) ([]EquipmentEntry, error)
	AddUserEquipment(ctx context.Context, userID int64, equipmentIDs []int64) error
	RemoveUserEquipment(ctx context.Context, userID int64, equipmentIDs []int64) error
}

// UserRepository manages the users owning inventories
type UserRepository interface {
	EnsureUser(ctx context.Context, userID int64, firstName string) error
}

// UserLocker serializes inventory reconciliation per user.
// The returned unlock function must be called exactly once.
type UserLocker interface {
	Lock(ctx context.Context, userID int64) (func(), error)
}
