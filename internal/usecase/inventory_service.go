package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

// InventoryService is the entry point for callers working with free text
type InventoryService struct {
	snapshots  SnapshotSource
	reconciler *InventoryReconciler
	inventory  domain.InventoryRepository
	users      domain.UserRepository
	log        *logger.Logger
}

// NewInventoryService creates a new inventory service with dependencies
func NewInventoryService(
	snapshots SnapshotSource,
	reconciler *InventoryReconciler,
	inventory domain.InventoryRepository,
	users domain.UserRepository,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		snapshots:  snapshots,
		reconciler: reconciler,
		inventory:  inventory,
		users:      users,
		log:        log.With("component", "InventoryService"),
	}
}

// ParseText parses a statement against the current snapshot without touching the inventory
func (s *InventoryService) ParseText(text string) (*domain.ParseResult, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	result := snap.Parser.Parse(text)
	return &result, nil
}

// AddText parses text and merges the items into the user's inventory.
// Flow: parse -> ensure user -> reconcile
func (s *InventoryService) AddText(ctx context.Context, userID int64, firstName, text string) (*domain.ParseResult, *domain.AddReport, error) {
	if userID <= 0 {
		return nil, nil, domain.ErrInvalidRequest
	}

	parsed, err := s.ParseText(text)
	if err != nil {
		return nil, nil, err
	}
	if len(parsed.Items) == 0 {
		return parsed, nil, domain.ErrEmptyStatement
	}

	if err := s.users.EnsureUser(ctx, userID, firstName); err != nil {
		s.log.Error("ensure user failed", "user_id", userID, "error", err)
		return parsed, nil, fmt.Errorf("ensure user %d: %w", userID, err)
	}

	report, err := s.reconciler.ApplyAdd(ctx, userID, parsed.Items)
	if err != nil {
		return parsed, nil, err
	}
	return parsed, report, nil
}

// RemoveText parses text and subtracts the items from the user's inventory
func (s *InventoryService) RemoveText(ctx context.Context, userID int64, text string) (*domain.ParseResult, *domain.RemoveReport, error) {
	if userID <= 0 {
		return nil, nil, domain.ErrInvalidRequest
	}

	parsed, err := s.ParseText(text)
	if err != nil {
		return nil, nil, err
	}
	if len(parsed.Items) == 0 {
		return parsed, nil, domain.ErrEmptyStatement
	}

	report, err := s.reconciler.ApplyRemove(ctx, userID, parsed.Items)
	if err != nil {
		return parsed, nil, err
	}
	return parsed, report, nil
}

// Consume deducts already structured items, e.g. the ingredient list of a chosen recipe
func (s *InventoryService) Consume(ctx context.Context, userID int64, items []domain.ParsedItem) (*domain.ConsumeReport, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidRequest
	}
	return s.reconciler.ApplyConsume(ctx, userID, items)
}

// Inventory lists the user's records sorted by display name
func (s *InventoryService) Inventory(ctx context.Context, userID int64) ([]domain.InventoryLine, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	inv, err := s.inventory.GetInventorySnapshot(ctx, userID)
	if err != nil {
		s.log.Error("read inventory failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list inventory for user %d: %w", userID, err)
	}

	lines := make([]domain.InventoryLine, 0, len(inv))
	for _, record := range inv {
		lines = append(lines, domain.InventoryLine{InventoryRecord: record, Line: formatLine(record)})
	}
	sort.Slice(lines, func(i, j int) bool {
		a, b := strings.ToLower(lines[i].DisplayName), strings.ToLower(lines[j].DisplayName)
		if a != b {
			return a < b
		}
		return lines[i].ProductKey < lines[j].ProductKey
	})

	return lines, nil
}

// formatLine renders "Name: quantity unit", or just the name when the amount is unknown
func formatLine(record domain.InventoryRecord) string {
	name := record.DisplayName
	if name == "" {
		name = record.ProductKey
	}
	if record.Quantity == nil {
		return name
	}
	line := name + ": " + record.Quantity.String()
	if record.Unit != nil {
		line += " " + *record.Unit
	}
	return line
}
