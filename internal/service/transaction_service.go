package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

func transactionsPath(accountID string) string {
	return fmt.Sprintf("accounts/%s/transactions", accountID)
}

// TransactionService manages an account's transaction collection.
// Transactions are never linked to budgets by reference; the comparison view
// joins them by exact category string at read time.
type TransactionService struct {
	backend store.Backend
	logger  *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(backend store.Backend, logger *zap.Logger) *TransactionService {
	return &TransactionService{backend: backend, logger: logger}
}

func (s *TransactionService) collection(accountID string) *store.Collection[entity.Transaction, *entity.Transaction] {
	if accountID == "" {
		return store.NewCollection[entity.Transaction](s.backend, transactionsPath(""), store.WithoutAccount())
	}
	return store.NewCollection[entity.Transaction](s.backend, transactionsPath(accountID),
		store.WithOrder(store.OrderCreatedDesc))
}

// List returns the account's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, accountID string) ([]*entity.Transaction, error) {
	return s.collection(accountID).List(ctx)
}

// Create validates and stores a new transaction.
func (s *TransactionService) Create(ctx context.Context, accountID string, t *entity.Transaction) error {
	if t.Category == "" {
		return fmt.Errorf("transaction category is required")
	}
	if t.Type != entity.TransactionExpense && t.Type != entity.TransactionIncome {
		return fmt.Errorf("transaction type must be expense or income, got %q", t.Type)
	}
	if err := s.collection(accountID).Create(ctx, t); err != nil {
		return err
	}
	s.logger.Info("Transaction created",
		zap.String("account_id", accountID),
		zap.String("transaction_id", t.ID),
		zap.String("category", t.Category),
		zap.Float64("amount", t.Amount))
	return nil
}

// Update patches an existing transaction.
func (s *TransactionService) Update(ctx context.Context, accountID, id string, patch map[string]any) error {
	return s.collection(accountID).Update(ctx, id, patch)
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, accountID, id string) error {
	return s.collection(accountID).Delete(ctx, id)
}
