package store

import (
	"context"
	"fmt"

	"github.com/fridgebot/backend/internal/domain"
)

// SeedUnitTables fills the conversion and synonym tables when they are empty
func (s *Store) SeedUnitTables(ctx context.Context, tables *domain.UnitTables) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&UnitConversion{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count unit conversions: %w", err)
	}
	if count == 0 && len(tables.Conversions) > 0 {
		rows := make([]UnitConversion, 0, len(tables.Conversions))
		for unit, rule := range tables.Conversions {
			rows = append(rows, UnitConversion{Unit: unit, Multiplier: rule.Multiplier, BaseUnit: rule.BaseUnit})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed unit conversions: %w", err)
		}
		s.log.Info("seeded unit conversions", "count", len(rows))
	}

	if err := db.Model(&UnitSynonym{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count unit synonyms: %w", err)
	}
	if count == 0 && len(tables.Synonyms) > 0 {
		rows := make([]UnitSynonym, 0, len(tables.Synonyms))
		for synonym, unit := range tables.Synonyms {
			rows = append(rows, UnitSynonym{Synonym: synonym, Unit: unit})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed unit synonyms: %w", err)
		}
		s.log.Info("seeded unit synonyms", "count", len(rows))
	}

	return nil
}
