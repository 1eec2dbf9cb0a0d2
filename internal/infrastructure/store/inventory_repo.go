package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/fridgebot/backend/internal/domain"
)

// InventoryRepo persists user inventory records
type InventoryRepo struct {
	store *Store
}

// NewInventoryRepo creates an inventory repository on the store
func NewInventoryRepo(store *Store) *InventoryRepo {
	return &InventoryRepo{store: store}
}

type inventoryRow struct {
	ProductID   int64
	Name        string
	DisplayName string
	Quantity    decimal.NullDecimal
	Unit        *string
	AddedAt     time.Time
}

// GetInventorySnapshot reads all records of a user keyed by product name
func (r *InventoryRepo) GetInventorySnapshot(ctx context.Context, userID int64) (domain.Inventory, error) {
	var rows []inventoryRow
	err := r.store.exec.run(ctx, "inventory.snapshot", func(ctx context.Context) error {
		rows = rows[:0]
		return r.store.db.WithContext(ctx).
			Table("user_products AS up").
			Select("up.product_id, p.name, p.display_name, up.quantity, up.unit, up.added_at").
			Joins("JOIN products AS p ON p.id = up.product_id").
			Where("up.user_id = ?", userID).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	inv := make(domain.Inventory, len(rows))
	for _, row := range rows {
		record := domain.InventoryRecord{
			ProductID:   row.ProductID,
			ProductKey:  row.Name,
			DisplayName: row.DisplayName,
			Unit:        row.Unit,
			AddedAt:     row.AddedAt,
		}
		if row.Quantity.Valid {
			q := row.Quantity.Decimal
			record.Quantity = &q
		}
		inv[row.Name] = record
	}
	return inv, nil
}

// UpsertBatch writes rows in one statement. added_at is kept for existing records.
func (r *InventoryRepo) UpsertBatch(ctx context.Context, userID int64, rows []domain.InventoryUpsert) error {
	if len(rows) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]UserProduct, 0, len(rows))
	for _, row := range rows {
		model := UserProduct{
			UserID:    userID,
			ProductID: row.ProductID,
			Unit:      row.Unit,
			AddedAt:   now,
			UpdatedAt: now,
		}
		if row.Quantity != nil {
			model.Quantity = decimal.NewNullDecimal(*row.Quantity)
		}
		models = append(models, model)
	}

	return r.store.exec.run(ctx, "inventory.upsert", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit", "updated_at"}),
			}).
			Create(&models).Error
	})
}

// DeleteBatch removes the user's records for the given products
func (r *InventoryRepo) DeleteBatch(ctx context.Context, userID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.store.exec.run(ctx, "inventory.delete", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).
			Where("user_id = ? AND product_id IN ?", userID, productIDs).
			Delete(&UserProduct{}).Error
	})
}
