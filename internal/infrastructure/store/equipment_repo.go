package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/fridgebot/backend/internal/domain"
)

// EquipmentRepo persists the tools each user owns
type EquipmentRepo struct {
	store *Store
}

// NewEquipmentRepo creates an equipment repository on the store
func NewEquipmentRepo(store *Store) *EquipmentRepo {
	return &EquipmentRepo{store: store}
}

// GetUserEquipment lists the tools a user owns
func (r *EquipmentRepo) GetUserEquipment(ctx context.Context, userID int64) ([]domain.EquipmentEntry, error) {
	var rows []Equipment
	err := r.store.exec.run(ctx, "equipment.list", func(ctx context.Context) error {
		rows = rows[:0]
		return r.store.db.WithContext(ctx).
			Table("user_equipment AS ue").
			Select("e.id, e.name").
			Joins("JOIN equipment AS e ON e.id = ue.equipment_id").
			Where("ue.user_id = ?", userID).
			Order("e.name").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.EquipmentEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.EquipmentEntry{ID: row.ID, Name: row.Name})
	}
	return entries, nil
}

// AddUserEquipment links the tools to the user. Existing links are kept.
func (r *EquipmentRepo) AddUserEquipment(ctx context.Context, userID int64, equipmentIDs []int64) error {
	if len(equipmentIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	links := make([]UserEquipment, 0, len(equipmentIDs))
	for _, id := range equipmentIDs {
		links = append(links, UserEquipment{UserID: userID, EquipmentID: id, AddedAt: now})
	}
	return r.store.exec.run(ctx, "equipment.add", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&links).Error
	})
}

// RemoveUserEquipment unlinks the tools from the user
func (r *EquipmentRepo) RemoveUserEquipment(ctx context.Context, userID int64, equipmentIDs []int64) error {
	if len(equipmentIDs) == 0 {
		return nil
	}
	return r.store.exec.run(ctx, "equipment.remove", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).
			Where("user_id = ? AND equipment_id IN ?", userID, equipmentIDs).
			Delete(&UserEquipment{}).Error
	})
}
