package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluepond/aqualedger/internal/domain/entity"
)

func TestCollection_CreateWritesThrough(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Budget](backend, "accounts/a1/budgets")
	ctx := context.Background()

	b := &entity.Budget{Category: "Feed", PlannedAmount: 500}
	require.NoError(t, col.Create(ctx, b))
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	// The snapshot comes back from the store, not from a local copy.
	got, err := col.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feed", got.Category)
	assert.Equal(t, 500.0, got.PlannedAmount)
}

func TestCollection_UpdatePatchesFields(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Budget](backend, "accounts/a1/budgets")
	ctx := context.Background()

	b := &entity.Budget{Category: "Feed", PlannedAmount: 500}
	require.NoError(t, col.Create(ctx, b))

	require.NoError(t, col.Update(ctx, b.ID, map[string]any{"plannedAmount": 750}))

	got, err := col.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, got.PlannedAmount)
	assert.Equal(t, "Feed", got.Category, "unpatched fields survive")
}

func TestCollection_UpdateMissingIsNotFound(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Budget](backend, "accounts/a1/budgets")

	err := col.Update(context.Background(), "missing", map[string]any{"plannedAmount": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_DeleteRemovesFromSnapshot(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Budget](backend, "accounts/a1/budgets")
	ctx := context.Background()

	b := &entity.Budget{Category: "Feed"}
	require.NoError(t, col.Create(ctx, b))
	require.NoError(t, col.Delete(ctx, b.ID))

	recs, err := col.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, col.Delete(ctx, b.ID), ErrNotFound)
}

func TestCollection_UnauthenticatedWritesFailLoudly(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Budget](backend, "accounts//budgets", WithoutAccount())
	ctx := context.Background()

	assert.ErrorIs(t, col.Create(ctx, &entity.Budget{Category: "Feed"}), ErrUnauthenticated)
	assert.ErrorIs(t, col.Update(ctx, "x", map[string]any{}), ErrUnauthenticated)
	assert.ErrorIs(t, col.Delete(ctx, "x"), ErrUnauthenticated)
}

func TestCollection_UnauthenticatedReadsAreEmptyNotHanging(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Budget](backend, "accounts//budgets", WithoutAccount())

	recs, err := col.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)

	delivered := false
	sub := col.Subscribe(func(recs []*entity.Budget, err error) {
		delivered = true
		assert.NoError(t, err)
		assert.Empty(t, recs)
	})
	defer sub.Cancel()
	assert.True(t, delivered, "empty snapshot delivered immediately, no loading-forever")
}

func TestCollection_SubscribeSeesEveryWrite(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Transaction](backend, "accounts/a1/transactions")
	ctx := context.Background()

	var latest []*entity.Transaction
	sub := col.Subscribe(func(recs []*entity.Transaction, err error) {
		require.NoError(t, err)
		latest = recs
	})
	defer sub.Cancel()

	require.NoError(t, col.Create(ctx, &entity.Transaction{Category: "Feed", Amount: 300}))
	require.NoError(t, col.Create(ctx, &entity.Transaction{Category: "Feed", Amount: 250}))

	require.Len(t, latest, 2)
	assert.Equal(t, 300.0, latest[0].Amount)
	assert.Equal(t, 250.0, latest[1].Amount)
}

func TestCollection_OrderOption(t *testing.T) {
	backend := newTestBackend(t)
	col := NewCollection[entity.Transaction](backend, "accounts/a1/transactions",
		WithOrder(OrderCreatedDesc))
	ctx := context.Background()

	first := &entity.Transaction{Category: "Feed", Amount: 1}
	second := &entity.Transaction{Category: "Feed", Amount: 2}
	require.NoError(t, col.Create(ctx, first))
	require.NoError(t, col.Create(ctx, second))

	var latest []*entity.Transaction
	sub := col.Subscribe(func(recs []*entity.Transaction, err error) {
		require.NoError(t, err)
		latest = recs
	})
	defer sub.Cancel()

	require.Len(t, latest, 2)
	assert.Equal(t, second.ID, latest[0].ID)
}
