package store

import (
	"context"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

// CatalogRepo reads the products, equipment and unit tables
type CatalogRepo struct {
	store *Store
	log   *logger.Logger
}

// NewCatalogRepo creates a catalog repository on the store
func NewCatalogRepo(store *Store) *CatalogRepo {
	return &CatalogRepo{store: store, log: store.log.With("repo", "CatalogRepo")}
}

// LoadCatalog returns all products ordered by id
func (r *CatalogRepo) LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	var products []Product
	err := r.store.exec.run(ctx, "catalog.load", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).Order("id").Find(&products).Error
	})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, domain.CatalogEntry{
			ID:          p.ID,
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Category:    p.Category,
		})
	}
	if len(entries) == 0 {
		r.log.Warn("catalog is empty, nothing will be recognized")
	}
	return entries, nil
}

// LoadEquipment returns all known kitchen tools ordered by id
func (r *CatalogRepo) LoadEquipment(ctx context.Context) ([]domain.EquipmentEntry, error) {
	var rows []Equipment
	err := r.store.exec.run(ctx, "equipment.load", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).Order("id").Find(&rows).Error
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

// LoadConversionTable returns the unit -> base unit rules
func (r *CatalogRepo) LoadConversionTable(ctx context.Context) (map[string]domain.ConversionRule, error) {
	var rows []UnitConversion
	err := r.store.exec.run(ctx, "units.conversions", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	table := make(map[string]domain.ConversionRule, len(rows))
	for _, row := range rows {
		table[row.Unit] = domain.ConversionRule{Multiplier: row.Multiplier, BaseUnit: row.BaseUnit}
	}
	return table, nil
}

// LoadNormalizationTable returns the synonym -> canonical unit table
func (r *CatalogRepo) LoadNormalizationTable(ctx context.Context) (map[string]string, error) {
	var rows []UnitSynonym
	err := r.store.exec.run(ctx, "units.synonyms", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	table := make(map[string]string, len(rows))
	for _, row := range rows {
		table[row.Synonym] = row.Unit
	}
	return table, nil
}
