package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
)

func TestComparison_FeedScenario(t *testing.T) {
	backend := newTestBackend(t)
	budgets := NewBudgetService(backend, zap.NewNop())
	transactions := NewTransactionService(backend, zap.NewNop())
	comparison := NewComparisonService(backend, zap.NewNop())
	defer comparison.Close()
	ctx := context.Background()

	require.NoError(t, budgets.Create(ctx, "a1",
		&entity.Budget{Category: "Feed", PlannedAmount: 500}))
	require.NoError(t, transactions.Create(ctx, "a1",
		&entity.Transaction{Category: "Feed", Amount: 300, Type: entity.TransactionExpense}))
	require.NoError(t, transactions.Create(ctx, "a1",
		&entity.Transaction{Category: "Feed", Amount: 250, Type: entity.TransactionExpense}))

	rows, err := comparison.Current("a1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Feed", rows[0].Category)
	assert.Equal(t, 500.0, rows[0].Planned)
	assert.Equal(t, 550.0, rows[0].Actual)
}

func TestComparison_TracksLiveWrites(t *testing.T) {
	backend := newTestBackend(t)
	budgets := NewBudgetService(backend, zap.NewNop())
	comparison := NewComparisonService(backend, zap.NewNop())
	defer comparison.Close()
	ctx := context.Background()

	// Start watching before any data exists.
	rows, err := comparison.Current("a1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, budgets.Create(ctx, "a1",
		&entity.Budget{Category: "Labor", PlannedAmount: 200}))

	rows, err = comparison.Current("a1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Labor", rows[0].Category)

	// A delete flows through the same snapshot path.
	all, _ := budgets.List(ctx, "a1")
	require.NoError(t, budgets.Delete(ctx, "a1", all[0].ID))

	rows, err = comparison.Current("a1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestComparison_AccountsAreIsolated(t *testing.T) {
	backend := newTestBackend(t)
	budgets := NewBudgetService(backend, zap.NewNop())
	comparison := NewComparisonService(backend, zap.NewNop())
	defer comparison.Close()
	ctx := context.Background()

	require.NoError(t, budgets.Create(ctx, "a1",
		&entity.Budget{Category: "Feed", PlannedAmount: 500}))

	rows, err := comparison.Current("a2")
	require.NoError(t, err)
	assert.Empty(t, rows, "another account's budgets must not leak in")
}

func TestComparison_NoAccountIsEmptyNotLoading(t *testing.T) {
	comparison := NewComparisonService(newTestBackend(t), zap.NewNop())
	defer comparison.Close()

	rows, err := comparison.Current("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestComparison_CloseIsIdempotent(t *testing.T) {
	comparison := NewComparisonService(newTestBackend(t), zap.NewNop())

	_, err := comparison.Current("a1")
	require.NoError(t, err)

	comparison.Close()
	comparison.Close()
}
