// Package service wires the typed collections, the aggregation engine and
// the report bridge into the operations the HTTP layer exposes. Account
// ownership is enforced by collection path construction: every account-scoped
// path embeds the account id, so there is no in-memory ownership check to
// get wrong.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

func budgetsPath(accountID string) string {
	return fmt.Sprintf("accounts/%s/budgets", accountID)
}

// BudgetService manages an account's budget collection.
type BudgetService struct {
	backend store.Backend
	logger  *zap.Logger
}

// NewBudgetService creates a new budget service.
func NewBudgetService(backend store.Backend, logger *zap.Logger) *BudgetService {
	return &BudgetService{backend: backend, logger: logger}
}

func (s *BudgetService) collection(accountID string) *store.Collection[entity.Budget, *entity.Budget] {
	if accountID == "" {
		return store.NewCollection[entity.Budget](s.backend, budgetsPath(""), store.WithoutAccount())
	}
	return store.NewCollection[entity.Budget](s.backend, budgetsPath(accountID),
		store.WithOrder(store.OrderCreatedDesc))
}

// List returns the account's budgets, newest first. Without an account the
// result is empty, not an error and not an endless loading state.
func (s *BudgetService) List(ctx context.Context, accountID string) ([]*entity.Budget, error) {
	return s.collection(accountID).List(ctx)
}

// Create validates and stores a new budget.
func (s *BudgetService) Create(ctx context.Context, accountID string, b *entity.Budget) error {
	if b.Category == "" {
		return fmt.Errorf("budget category is required")
	}
	if err := s.collection(accountID).Create(ctx, b); err != nil {
		return err
	}
	s.logger.Info("Budget created",
		zap.String("account_id", accountID),
		zap.String("budget_id", b.ID),
		zap.String("category", b.Category))
	return nil
}

// Update patches an existing budget.
func (s *BudgetService) Update(ctx context.Context, accountID, id string, patch map[string]any) error {
	return s.collection(accountID).Update(ctx, id, patch)
}

// Delete removes a budget.
func (s *BudgetService) Delete(ctx context.Context, accountID, id string) error {
	return s.collection(accountID).Delete(ctx, id)
}
