package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

// InventoryReconciler applies parsed items to a user's stored inventory.
// Every call holds the user's lock from the snapshot read to the last batch write.
type InventoryReconciler struct {
	inventory domain.InventoryRepository
	locker    domain.UserLocker
	snapshots SnapshotSource
	log       *logger.Logger
}

// NewInventoryReconciler creates a reconciler
func NewInventoryReconciler(
	inventory domain.InventoryRepository,
	locker domain.UserLocker,
	snapshots SnapshotSource,
	log *logger.Logger,
) *InventoryReconciler {
	return &InventoryReconciler{
		inventory: inventory,
		locker:    locker,
		snapshots: snapshots,
		log:       log.With("component", "InventoryReconciler"),
	}
}

// ApplyAdd merges items into the inventory. An existing known amount is summed with the
// incoming one; anything else replaces or creates the record as given, including an
// unknown amount.
func (r *InventoryReconciler) ApplyAdd(ctx context.Context, userID int64, items []domain.ParsedItem) (*domain.AddReport, error) {
	report := &domain.AddReport{
		Added:            []domain.ItemOutcome{},
		Updated:          []domain.ItemOutcome{},
		Invalid:          []domain.ItemOutcome{},
		IncompatibleUnit: []domain.ItemOutcome{},
	}

	err := r.reconcile(ctx, userID, "add", items, func(snap *Snapshot, inv domain.Inventory, plan *writePlan) {
		for _, item := range items {
			entry, ok := snap.Catalog.Lookup(item.ProductKey)
			if !ok {
				report.Invalid = append(report.Invalid, outcome(item, ""))
				continue
			}
			if item.Quantity != nil && !item.Quantity.IsPositive() {
				report.Invalid = append(report.Invalid, outcome(item, entry.DisplayName))
				continue
			}

			quantity, unit, err := snap.convert(item)
			if err != nil {
				report.IncompatibleUnit = append(report.IncompatibleUnit, outcome(item, entry.DisplayName))
				continue
			}
			if quantity != nil {
				rounded, ok := domain.StorableQuantity(*quantity)
				if !ok {
					report.Invalid = append(report.Invalid, outcome(item, entry.DisplayName))
					continue
				}
				quantity = &rounded
			}

			existing, exists := inv[entry.Name]
			if exists && existing.Quantity != nil && quantity != nil {
				if item.Unit == nil {
					// no unit given: the amount is taken in the stored unit
					unit = existing.Unit
				} else if !sameUnit(existing.Unit, unit) {
					report.IncompatibleUnit = append(report.IncompatibleUnit, outcome(item, entry.DisplayName))
					continue
				}
				sum, ok := domain.StorableQuantity(existing.Quantity.Add(*quantity))
				if !ok {
					report.Invalid = append(report.Invalid, outcome(item, entry.DisplayName))
					continue
				}
				plan.upsert(domain.InventoryUpsert{ProductID: entry.ID, Quantity: &sum, Unit: unit})
				report.Updated = append(report.Updated, domain.ItemOutcome{
					ProductKey:  entry.Name,
					DisplayName: entry.DisplayName,
					Quantity:    &sum,
					Unit:        unit,
					Delta:       quantity,
				})
				continue
			}

			plan.upsert(domain.InventoryUpsert{ProductID: entry.ID, Quantity: quantity, Unit: unit})
			report.Added = append(report.Added, domain.ItemOutcome{
				ProductKey:  entry.Name,
				DisplayName: entry.DisplayName,
				Quantity:    quantity,
				Unit:        unit,
				Delta:       quantity,
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ApplyRemove subtracts items from the inventory. An item without a quantity deletes the
// record; a record reaching zero or less is deleted, never stored.
func (r *InventoryReconciler) ApplyRemove(ctx context.Context, userID int64, items []domain.ParsedItem) (*domain.RemoveReport, error) {
	report := &domain.RemoveReport{
		Removed:          []domain.ItemOutcome{},
		Reduced:          []domain.ItemOutcome{},
		NotFound:         []domain.ItemOutcome{},
		Invalid:          []domain.ItemOutcome{},
		CannotSubtract:   []domain.ItemOutcome{},
		IncompatibleUnit: []domain.ItemOutcome{},
	}

	err := r.reconcile(ctx, userID, "remove", items, func(snap *Snapshot, inv domain.Inventory, plan *writePlan) {
		for _, item := range items {
			entry, ok := snap.Catalog.Lookup(item.ProductKey)
			if !ok {
				report.NotFound = append(report.NotFound, outcome(item, ""))
				continue
			}
			existing, exists := inv[entry.Name]
			if !exists {
				report.NotFound = append(report.NotFound, outcome(item, entry.DisplayName))
				continue
			}

			if item.Quantity == nil {
				plan.delete(entry.ID)
				report.Removed = append(report.Removed, domain.ItemOutcome{
					ProductKey:  entry.Name,
					DisplayName: entry.DisplayName,
				})
				continue
			}
			if existing.Quantity == nil {
				report.CannotSubtract = append(report.CannotSubtract, outcome(item, entry.DisplayName))
				continue
			}

			requested, err := snap.requestedAmount(item, existing)
			if errors.Is(err, domain.ErrMalformedQuantity) {
				report.Invalid = append(report.Invalid, outcome(item, entry.DisplayName))
				continue
			}
			if err != nil {
				report.IncompatibleUnit = append(report.IncompatibleUnit, outcome(item, entry.DisplayName))
				continue
			}

			remaining := existing.Quantity.Sub(requested).Round(domain.QuantityScale)
			if !remaining.IsPositive() {
				plan.delete(entry.ID)
				report.Removed = append(report.Removed, domain.ItemOutcome{
					ProductKey:    entry.Name,
					DisplayName:   entry.DisplayName,
					Unit:          existing.Unit,
					Delta:         existing.Quantity,
					FullyConsumed: true,
				})
				continue
			}

			plan.upsert(domain.InventoryUpsert{ProductID: entry.ID, Quantity: &remaining, Unit: existing.Unit})
			report.Reduced = append(report.Reduced, domain.ItemOutcome{
				ProductKey:  entry.Name,
				DisplayName: entry.DisplayName,
				Quantity:    &remaining,
				Unit:        existing.Unit,
				Delta:       &requested,
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ApplyConsume deducts the ingredients of a cooked dish. Items that cannot be deducted
// are skipped without complaint, including non-positive amounts.
func (r *InventoryReconciler) ApplyConsume(ctx context.Context, userID int64, items []domain.ParsedItem) (*domain.ConsumeReport, error) {
	report := &domain.ConsumeReport{
		Depleted: []domain.ItemOutcome{},
		Reduced:  []domain.ItemOutcome{},
		Skipped:  []domain.ItemOutcome{},
	}

	err := r.reconcile(ctx, userID, "consume", items, func(snap *Snapshot, inv domain.Inventory, plan *writePlan) {
		for _, item := range items {
			entry, ok := snap.Catalog.Lookup(item.ProductKey)
			if !ok {
				report.Skipped = append(report.Skipped, outcome(item, ""))
				continue
			}
			existing, exists := inv[entry.Name]
			if !exists || existing.Quantity == nil || item.Quantity == nil {
				report.Skipped = append(report.Skipped, outcome(item, entry.DisplayName))
				continue
			}

			requested, err := snap.requestedAmount(item, existing)
			if err != nil {
				report.Skipped = append(report.Skipped, outcome(item, entry.DisplayName))
				continue
			}

			remaining := existing.Quantity.Sub(requested).Round(domain.QuantityScale)
			if !remaining.IsPositive() {
				plan.delete(entry.ID)
				report.Depleted = append(report.Depleted, domain.ItemOutcome{
					ProductKey:    entry.Name,
					DisplayName:   entry.DisplayName,
					Unit:          existing.Unit,
					Delta:         existing.Quantity,
					FullyConsumed: true,
				})
				continue
			}

			plan.upsert(domain.InventoryUpsert{ProductID: entry.ID, Quantity: &remaining, Unit: existing.Unit})
			report.Reduced = append(report.Reduced, domain.ItemOutcome{
				ProductKey:  entry.Name,
				DisplayName: entry.DisplayName,
				Quantity:    &remaining,
				Unit:        existing.Unit,
				Delta:       &requested,
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// reconcile runs one read-modify-write cycle under the user's lock
func (r *InventoryReconciler) reconcile(
	ctx context.Context,
	userID int64,
	op string,
	items []domain.ParsedItem,
	apply func(snap *Snapshot, inv domain.Inventory, plan *writePlan),
) error {
	if len(items) == 0 {
		return domain.ErrEmptyStatement
	}

	snap, err := r.snapshots.Current()
	if err != nil {
		return err
	}

	unlock, err := r.locker.Lock(ctx, userID)
	if err != nil {
		r.log.Warn("acquire user lock failed", "user_id", userID, "op", op, "error", err)
		return fmt.Errorf("%s for user %d: %w", op, userID, err)
	}
	defer unlock()

	inv, err := r.inventory.GetInventorySnapshot(ctx, userID)
	if err != nil {
		r.log.Error("read inventory failed", "user_id", userID, "op", op, "error", err)
		return fmt.Errorf("%s for user %d: %w", op, userID, err)
	}

	plan := newWritePlan()
	apply(snap, inv, plan)

	upserts, deletes := plan.batches()
	if len(deletes) > 0 {
		if err := r.inventory.DeleteBatch(ctx, userID, deletes); err != nil {
			r.log.Error("delete batch failed", "user_id", userID, "op", op, "count", len(deletes), "error", err)
			return fmt.Errorf("%s for user %d: %w", op, userID, err)
		}
	}
	if len(upserts) > 0 {
		if err := r.inventory.UpsertBatch(ctx, userID, upserts); err != nil {
			r.log.Error("upsert batch failed", "user_id", userID, "op", op, "count", len(upserts), "error", err)
			return fmt.Errorf("%s for user %d: %w", op, userID, err)
		}
	}

	r.log.Debug("inventory reconciled",
		"user_id", userID,
		"op", op,
		"items", len(items),
		"upserts", len(upserts),
		"deletes", len(deletes),
	)
	return nil
}

// convert normalizes the item's unit and converts its quantity into a base unit
func (s *Snapshot) convert(item domain.ParsedItem) (*decimal.Decimal, *string, error) {
	var unit *string
	if item.Unit != nil {
		if normalized := s.Normalizer.Normalize(*item.Unit); normalized != "" {
			unit = &normalized
		}
	}
	return s.Converter.Convert(item.Quantity, unit)
}

// requestedAmount expresses the item's quantity in the stored record's unit. Without a unit
// the stored unit is assumed. Amounts that are not positive at storage scale yield
// ErrMalformedQuantity.
func (s *Snapshot) requestedAmount(item domain.ParsedItem, existing domain.InventoryRecord) (decimal.Decimal, error) {
	if item.Quantity == nil || !item.Quantity.IsPositive() {
		return decimal.Zero, domain.ErrMalformedQuantity
	}

	amount := *item.Quantity
	if item.Unit != nil {
		quantity, unit, err := s.convert(item)
		if err != nil {
			return decimal.Zero, err
		}
		if !sameUnit(existing.Unit, unit) {
			return decimal.Zero, domain.ErrIncompatibleUnit
		}
		amount = *quantity
	}

	if !amount.Round(domain.QuantityScale).IsPositive() {
		return decimal.Zero, domain.ErrMalformedQuantity
	}
	return amount, nil
}

func sameUnit(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func outcome(item domain.ParsedItem, displayName string) domain.ItemOutcome {
	return domain.ItemOutcome{
		ProductKey:  item.ProductKey,
		DisplayName: displayName,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
	}
}

// writePlan collects the final write per product in first-seen order.
// A later action for the same product replaces the earlier one.
type writePlan struct {
	order   []int64
	actions map[int64]planned
}

type planned struct {
	remove bool
	row    domain.InventoryUpsert
}

func newWritePlan() *writePlan {
	return &writePlan{actions: make(map[int64]planned)}
}

func (p *writePlan) upsert(row domain.InventoryUpsert) {
	p.set(row.ProductID, planned{row: row})
}

func (p *writePlan) delete(productID int64) {
	p.set(productID, planned{remove: true, row: domain.InventoryUpsert{ProductID: productID}})
}

func (p *writePlan) set(productID int64, action planned) {
	if _, seen := p.actions[productID]; !seen {
		p.order = append(p.order, productID)
	}
	p.actions[productID] = action
}

func (p *writePlan) batches() ([]domain.InventoryUpsert, []int64) {
	var upserts []domain.InventoryUpsert
	var deletes []int64
	for _, id := range p.order {
		action := p.actions[id]
		if action.remove {
			deletes = append(deletes, id)
		} else {
			upserts = append(upserts, action.row)
		}
	}
	return upserts, deletes
}
