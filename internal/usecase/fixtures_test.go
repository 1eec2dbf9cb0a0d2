package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fridgebot/backend/internal/domain"
)

func testCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.CatalogEntry{
		{ID: 1, Name: "tomato", DisplayName: "Tomato", Category: "vegetables"},
		{ID: 2, Name: "cucumber", DisplayName: "Cucumber", Category: "vegetables"},
		{ID: 3, Name: "milk", DisplayName: "Milk", Category: "dairy"},
		{ID: 4, Name: "sugar", DisplayName: "Sugar", Category: "grocery"},
		{ID: 5, Name: "salt", DisplayName: "Salt", Category: "grocery"},
		{ID: 6, Name: "sour cream", DisplayName: "Sour cream", Category: "dairy"},
		{ID: 7, Name: "olive oil", DisplayName: "Olive oil", Category: "grocery"},
		{ID: 8, Name: "egg", DisplayName: "Egg", Category: "dairy"},
		{ID: 9, Name: "7up", DisplayName: "7Up", Category: "drinks"},
		{ID: 10, Name: "cream", DisplayName: "Cream", Category: "dairy"},
	})
}

func testSnapshot() *Snapshot {
	snap := NewSnapshot(testCatalog(), domain.DefaultUnitTables(), DefaultCutoff)
	snap.Equipment = domain.NewEquipmentCatalog([]domain.EquipmentEntry{
		{ID: 1, Name: "oven"},
		{ID: 2, Name: "blender"},
		{ID: 3, Name: "frying pan"},
		{ID: 4, Name: "microwave"},
	})
	return snap
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string {
	return &s
}

// fakeInventory is an in-memory InventoryRepository keyed by user and product id
type fakeInventory struct {
	mu      sync.Mutex
	catalog map[int64]domain.CatalogEntry
	rows    map[int64]map[int64]domain.InventoryRecord
	delay   time.Duration

	readErr   error
	upsertErr error
	deleteErr error

	upsertCalls int
	deleteCalls int
}

func newFakeInventory(catalog *domain.Catalog) *fakeInventory {
	byID := make(map[int64]domain.CatalogEntry)
	for _, key := range catalog.Keys() {
		entry, _ := catalog.Lookup(key)
		byID[entry.ID] = entry
	}
	return &fakeInventory{
		catalog: byID,
		rows:    make(map[int64]map[int64]domain.InventoryRecord),
	}
}

func (f *fakeInventory) put(userID int64, key string, quantity *decimal.Decimal, unit *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, entry := range f.catalog {
		if entry.Name == key {
			if f.rows[userID] == nil {
				f.rows[userID] = make(map[int64]domain.InventoryRecord)
			}
			f.rows[userID][id] = domain.InventoryRecord{
				ProductID:   id,
				ProductKey:  entry.Name,
				DisplayName: entry.DisplayName,
				Quantity:    quantity,
				Unit:        unit,
				AddedAt:     time.Now(),
			}
			return
		}
	}
	panic("unknown product " + key)
}

func (f *fakeInventory) GetInventorySnapshot(ctx context.Context, userID int64) (domain.Inventory, error) {
	f.mu.Lock()
	if f.readErr != nil {
		f.mu.Unlock()
		return nil, f.readErr
	}
	inv := make(domain.Inventory)
	for _, record := range f.rows[userID] {
		inv[record.ProductKey] = record
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return inv, nil
}

func (f *fakeInventory) UpsertBatch(ctx context.Context, userID int64, rows []domain.InventoryUpsert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.rows[userID] == nil {
		f.rows[userID] = make(map[int64]domain.InventoryRecord)
	}
	for _, row := range rows {
		entry := f.catalog[row.ProductID]
		addedAt := time.Now()
		if existing, ok := f.rows[userID][row.ProductID]; ok {
			addedAt = existing.AddedAt
		}
		f.rows[userID][row.ProductID] = domain.InventoryRecord{
			ProductID:   row.ProductID,
			ProductKey:  entry.Name,
			DisplayName: entry.DisplayName,
			Quantity:    row.Quantity,
			Unit:        row.Unit,
			AddedAt:     addedAt,
		}
	}
	return nil
}

func (f *fakeInventory) DeleteBatch(ctx context.Context, userID int64, productIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, id := range productIDs {
		delete(f.rows[userID], id)
	}
	return nil
}

func (f *fakeInventory) record(userID int64, key string) (domain.InventoryRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.rows[userID] {
		if record.ProductKey == key {
			return record, true
		}
	}
	return domain.InventoryRecord{}, false
}

func (f *fakeInventory) count(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[userID])
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]string
	err   error
}

func (f *fakeUsers) EnsureUser(ctx context.Context, userID int64, firstName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.users == nil {
		f.users = make(map[int64]string)
	}
	if _, ok := f.users[userID]; !ok {
		f.users[userID] = firstName
	}
	return nil
}

type noopLocker struct{}

func (noopLocker) Lock(ctx context.Context, userID int64) (func(), error) {
	return func() {}, nil
}

type failingLocker struct {
	err error
}

func (l failingLocker) Lock(ctx context.Context, userID int64) (func(), error) {
	return nil, l.err
}

// fakeEquipment is an in-memory EquipmentRepository
type fakeEquipment struct {
	mu      sync.Mutex
	catalog map[int64]domain.EquipmentEntry
	owned   map[int64]map[int64]bool
	err     error

	writeCalls int
}

func newFakeEquipment(snap *Snapshot) *fakeEquipment {
	byID := make(map[int64]domain.EquipmentEntry)
	for _, name := range snap.Equipment.Names() {
		entry, _ := snap.Equipment.Lookup(name)
		byID[entry.ID] = entry
	}
	return &fakeEquipment{catalog: byID, owned: make(map[int64]map[int64]bool)}
}

func (f *fakeEquipment) GetUserEquipment(ctx context.Context, userID int64) ([]domain.EquipmentEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var entries []domain.EquipmentEntry
	for id := range f.owned[userID] {
		entries = append(entries, f.catalog[id])
	}
	return entries, nil
}

func (f *fakeEquipment) AddUserEquipment(ctx context.Context, userID int64, equipmentIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.err != nil {
		return f.err
	}
	if f.owned[userID] == nil {
		f.owned[userID] = make(map[int64]bool)
	}
	for _, id := range equipmentIDs {
		f.owned[userID][id] = true
	}
	return nil
}

func (f *fakeEquipment) RemoveUserEquipment(ctx context.Context, userID int64, equipmentIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.err != nil {
		return f.err
	}
	for _, id := range equipmentIDs {
		delete(f.owned[userID], id)
	}
	return nil
}
