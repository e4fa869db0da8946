package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

func TestInventory_AdjustQuantityFloorsAtZero(t *testing.T) {
	svc := NewInventoryService(newTestBackend(t), zap.NewNop())
	ctx := context.Background()

	item := &entity.InventoryItem{Name: "Feed pellets", Category: "Feed", Quantity: 5, Unit: "kg"}
	require.NoError(t, svc.Create(ctx, "a1", item))

	got, err := svc.AdjustQuantity(ctx, "a1", item.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Quantity, "quantity floors at zero, never negative")

	// The floored value is what the store holds, not just the return value.
	items, err := svc.List(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0.0, items[0].Quantity)
}

func TestInventory_AdjustQuantityIncrements(t *testing.T) {
	svc := NewInventoryService(newTestBackend(t), zap.NewNop())
	ctx := context.Background()

	item := &entity.InventoryItem{Name: "Lime", Category: "Chemicals", Quantity: 2, Unit: "bag"}
	require.NoError(t, svc.Create(ctx, "a1", item))

	got, err := svc.AdjustQuantity(ctx, "a1", item.ID, 3.5)
	require.NoError(t, err)
	assert.Equal(t, 5.5, got.Quantity)
}

func TestInventory_AdjustMissingItem(t *testing.T) {
	svc := NewInventoryService(newTestBackend(t), zap.NewNop())

	_, err := svc.AdjustQuantity(context.Background(), "a1", "missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInventory_UnauthenticatedWriteFails(t *testing.T) {
	svc := NewInventoryService(newTestBackend(t), zap.NewNop())

	err := svc.Create(context.Background(), "", &entity.InventoryItem{Name: "Feed"})
	assert.ErrorIs(t, err, store.ErrUnauthenticated)
}

func TestInventory_NeedsReorder(t *testing.T) {
	item := &entity.InventoryItem{Quantity: 3, ReorderPoint: 5}
	assert.True(t, item.NeedsReorder())

	item.Quantity = 10
	assert.False(t, item.NeedsReorder())
}
