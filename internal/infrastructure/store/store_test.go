package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Config{
		Driver:     DriverSQLite,
		DSN:        fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.SeedUnitTables(ctx, domain.DefaultUnitTables()))
	require.NoError(t, s.DB().Create(&[]Product{
		{ID: 1, Name: "milk", DisplayName: "Milk", Category: "dairy"},
		{ID: 2, Name: "sugar", DisplayName: "Sugar", Category: "grocery"},
		{ID: 3, Name: "salt", DisplayName: "Salt", Category: "grocery"},
	}).Error)
	require.NoError(t, s.DB().Create(&[]Equipment{
		{ID: 1, Name: "oven"},
		{ID: 2, Name: "blender"},
		{ID: 3, Name: "frying pan"},
	}).Error)

	return s
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalogRepo(t *testing.T) {
	s := newTestStore(t)
	repo := NewCatalogRepo(s)
	ctx := context.Background()

	entries, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "milk", entries[0].Name)
	assert.Equal(t, "Milk", entries[0].DisplayName)

	conversions, err := repo.LoadConversionTable(ctx)
	require.NoError(t, err)
	defaults := domain.DefaultUnitTables()
	require.Len(t, conversions, len(defaults.Conversions))
	for unit, rule := range defaults.Conversions {
		got, ok := conversions[unit]
		require.True(t, ok, "missing conversion %s", unit)
		assert.True(t, rule.Multiplier.Equal(got.Multiplier), "%s multiplier = %s, want %s", unit, got.Multiplier, rule.Multiplier)
		assert.Equal(t, rule.BaseUnit, got.BaseUnit)
	}

	synonyms, err := repo.LoadNormalizationTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaults.Synonyms, synonyms)
}

func TestSeedUnitTables_OnlyWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedUnitTables(ctx, &domain.UnitTables{
		Conversions: map[string]domain.ConversionRule{"bucket": {Multiplier: decimal.RequireFromString("10000"), BaseUnit: "ml"}},
		Synonyms:    map[string]string{"buckets": "bucket"},
	}))

	conversions, err := NewCatalogRepo(s).LoadConversionTable(ctx)
	require.NoError(t, err)
	_, seeded := conversions["bucket"]
	assert.False(t, seeded, "seeding must not touch non-empty tables")
}

func TestInventoryRepo_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := NewInventoryRepo(s)
	ctx := context.Background()
	const userID int64 = 42

	ml := "ml"
	require.NoError(t, repo.UpsertBatch(ctx, userID, []domain.InventoryUpsert{
		{ProductID: 1, Quantity: decimalPtr("300"), Unit: &ml},
		{ProductID: 3},
	}))

	inv, err := repo.GetInventorySnapshot(ctx, userID)
	require.NoError(t, err)
	require.Len(t, inv, 2)

	milk := inv["milk"]
	require.NotNil(t, milk.Quantity)
	assert.True(t, milk.Quantity.Equal(decimal.RequireFromString("300")), "milk = %s", milk.Quantity)
	require.NotNil(t, milk.Unit)
	assert.Equal(t, "ml", *milk.Unit)
	assert.Equal(t, "Milk", milk.DisplayName)
	assert.Equal(t, int64(1), milk.ProductID)

	salt := inv["salt"]
	assert.Nil(t, salt.Quantity)
	assert.Nil(t, salt.Unit)

	other, err := repo.GetInventorySnapshot(ctx, userID+1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInventoryRepo_UpsertKeepsAddedAt(t *testing.T) {
	s := newTestStore(t)
	repo := NewInventoryRepo(s)
	ctx := context.Background()
	const userID int64 = 7

	g := "g"
	require.NoError(t, repo.UpsertBatch(ctx, userID, []domain.InventoryUpsert{
		{ProductID: 2, Quantity: decimalPtr("500"), Unit: &g},
	}))

	addedAt := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, s.DB().Model(&UserProduct{}).
		Where("user_id = ? AND product_id = ?", userID, 2).
		Update("added_at", addedAt).Error)

	require.NoError(t, repo.UpsertBatch(ctx, userID, []domain.InventoryUpsert{
		{ProductID: 2, Quantity: decimalPtr("750.5"), Unit: &g},
	}))

	inv, err := repo.GetInventorySnapshot(ctx, userID)
	require.NoError(t, err)
	sugar := inv["sugar"]
	require.NotNil(t, sugar.Quantity)
	assert.True(t, sugar.Quantity.Equal(decimal.RequireFromString("750.5")), "sugar = %s", sugar.Quantity)
	assert.WithinDuration(t, addedAt, sugar.AddedAt, time.Second)
}

func TestInventoryRepo_DeleteBatch(t *testing.T) {
	s := newTestStore(t)
	repo := NewInventoryRepo(s)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, 1, []domain.InventoryUpsert{{ProductID: 1}, {ProductID: 2}, {ProductID: 3}}))
	require.NoError(t, repo.UpsertBatch(ctx, 2, []domain.InventoryUpsert{{ProductID: 1}}))

	require.NoError(t, repo.DeleteBatch(ctx, 1, []int64{1, 3}))
	require.NoError(t, repo.DeleteBatch(ctx, 1, nil))

	inv, err := repo.GetInventorySnapshot(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, inv, 1)
	assert.Contains(t, inv, "sugar")

	inv, err = repo.GetInventorySnapshot(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, inv, 1, "other users are untouched")
}

func TestUserRepo_EnsureUser(t *testing.T) {
	s := newTestStore(t)
	repo := NewUserRepo(s)
	ctx := context.Background()

	require.NoError(t, repo.EnsureUser(ctx, 99, "Ann"))
	require.NoError(t, repo.EnsureUser(ctx, 99, "Someone else"))

	var users []User
	require.NoError(t, s.DB().Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Ann", users[0].FirstName)
}

func TestCatalogRepo_LoadEquipment(t *testing.T) {
	s := newTestStore(t)

	entries, err := NewCatalogRepo(s).LoadEquipment(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.EquipmentEntry{ID: 1, Name: "oven"}, entries[0])
}

func TestEquipmentRepo_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := NewEquipmentRepo(s)
	ctx := context.Background()

	require.NoError(t, NewUserRepo(s).EnsureUser(ctx, 1, "Ann"))
	require.NoError(t, repo.AddUserEquipment(ctx, 1, []int64{1, 3}))
	require.NoError(t, repo.AddUserEquipment(ctx, 1, []int64{1}), "existing links are kept")
	require.NoError(t, repo.AddUserEquipment(ctx, 2, []int64{2}))

	owned, err := repo.GetUserEquipment(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.EquipmentEntry{{ID: 3, Name: "frying pan"}, {ID: 1, Name: "oven"}}, owned)

	require.NoError(t, repo.RemoveUserEquipment(ctx, 1, []int64{3}))
	owned, err = repo.GetUserEquipment(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.EquipmentEntry{{ID: 1, Name: "oven"}}, owned)

	other, err := repo.GetUserEquipment(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1, "other users are untouched")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"}, logger.NewNop())
	assert.Error(t, err)
}
