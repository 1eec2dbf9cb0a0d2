package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

// Snapshot bundles the read-only reference data with the parser built over it.
// A snapshot is never modified once published.
type Snapshot struct {
	Catalog    *domain.Catalog
	Equipment  *domain.EquipmentCatalog
	Units      *domain.UnitTables
	Parser     *StatementParser
	Normalizer *UnitNormalizer
	Converter  *UnitConverter
	LoadedAt   time.Time
}

// NewSnapshot builds a snapshot from already loaded tables
func NewSnapshot(catalog *domain.Catalog, units *domain.UnitTables, cutoff float64) *Snapshot {
	if units == nil {
		units = &domain.UnitTables{}
	}
	return &Snapshot{
		Catalog:    catalog,
		Equipment:  domain.NewEquipmentCatalog(nil),
		Units:      units,
		Parser:     NewStatementParser(catalog, units, cutoff),
		Normalizer: NewUnitNormalizer(units.Synonyms),
		Converter:  NewUnitConverter(units.Conversions),
		LoadedAt:   time.Now(),
	}
}

// SnapshotSource provides the snapshot parsing and reconciliation run against
type SnapshotSource interface {
	Current() (*Snapshot, error)
}

// StaticSnapshot always serves the same snapshot
type StaticSnapshot struct {
	snapshot *Snapshot
}

// NewStaticSnapshot wraps a prebuilt snapshot
func NewStaticSnapshot(snapshot *Snapshot) *StaticSnapshot {
	return &StaticSnapshot{snapshot: snapshot}
}

// Current returns the wrapped snapshot
func (s *StaticSnapshot) Current() (*Snapshot, error) {
	if s.snapshot == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return s.snapshot, nil
}

// SnapshotStore loads reference data from the catalog repository and publishes it
// atomically. Readers never observe a partially built snapshot.
type SnapshotStore struct {
	repo    domain.CatalogRepository
	cutoff  float64
	log     *logger.Logger
	current atomic.Pointer[Snapshot]
}

// NewSnapshotStore creates an empty store; call Reload before serving
func NewSnapshotStore(repo domain.CatalogRepository, cutoff float64, log *logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		repo:   repo,
		cutoff: cutoff,
		log:    log.With("component", "SnapshotStore"),
	}
}

// Current returns the published snapshot
func (s *SnapshotStore) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return snap, nil
}

// Reload reads the catalog, equipment, conversion and normalization tables and swaps in a
// new snapshot. On failure the previously published snapshot stays in place.
func (s *SnapshotStore) Reload(ctx context.Context) (*Snapshot, error) {
	entries, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		s.log.Error("load catalog failed", "error", err)
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	equipment, err := s.repo.LoadEquipment(ctx)
	if err != nil {
		s.log.Error("load equipment failed", "error", err)
		return nil, fmt.Errorf("load equipment: %w", err)
	}

	conversions, err := s.repo.LoadConversionTable(ctx)
	if err != nil {
		s.log.Error("load conversion table failed", "error", err)
		return nil, fmt.Errorf("load conversion table: %w", err)
	}

	synonyms, err := s.repo.LoadNormalizationTable(ctx)
	if err != nil {
		s.log.Error("load normalization table failed", "error", err)
		return nil, fmt.Errorf("load normalization table: %w", err)
	}

	snap := NewSnapshot(
		domain.NewCatalog(entries),
		&domain.UnitTables{Conversions: conversions, Synonyms: synonyms},
		s.cutoff,
	)
	snap.Equipment = domain.NewEquipmentCatalog(equipment)
	s.current.Store(snap)

	s.log.Info("catalog snapshot loaded",
		"products", snap.Catalog.Len(),
		"equipment", snap.Equipment.Len(),
		"conversions", len(conversions),
		"synonyms", len(synonyms),
	)
	return snap, nil
}
