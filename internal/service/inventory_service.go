package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

func inventoryPath(accountID string) string {
	return fmt.Sprintf("accounts/%s/inventory", accountID)
}

// InventoryService manages an account's stock of supplies. Quantities move
// by signed deltas and are floored at zero.
type InventoryService struct {
	backend store.Backend
	logger  *zap.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(backend store.Backend, logger *zap.Logger) *InventoryService {
	return &InventoryService{backend: backend, logger: logger}
}

func (s *InventoryService) collection(accountID string) *store.Collection[entity.InventoryItem, *entity.InventoryItem] {
	if accountID == "" {
		return store.NewCollection[entity.InventoryItem](s.backend, inventoryPath(""), store.WithoutAccount())
	}
	return store.NewCollection[entity.InventoryItem](s.backend, inventoryPath(accountID))
}

// List returns the account's inventory.
func (s *InventoryService) List(ctx context.Context, accountID string) ([]*entity.InventoryItem, error) {
	return s.collection(accountID).List(ctx)
}

// Create validates and stores a new item. Negative starting quantities are
// floored at zero like any other quantity write.
func (s *InventoryService) Create(ctx context.Context, accountID string, item *entity.InventoryItem) error {
	if item.Name == "" {
		return fmt.Errorf("inventory item name is required")
	}
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	return s.collection(accountID).Create(ctx, item)
}

// Update patches an existing item.
func (s *InventoryService) Update(ctx context.Context, accountID, id string, patch map[string]any) error {
	return s.collection(accountID).Update(ctx, id, patch)
}

// Delete removes an item.
func (s *InventoryService) Delete(ctx context.Context, accountID, id string) error {
	return s.collection(accountID).Delete(ctx, id)
}

// AdjustQuantity applies a signed delta to an item's quantity, flooring the
// result at zero. The read-modify-write is last-write-wins like every other
// document write; there is no optimistic-concurrency check.
func (s *InventoryService) AdjustQuantity(ctx context.Context, accountID, id string, delta float64) (*entity.InventoryItem, error) {
	col := s.collection(accountID)

	item, err := col.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	quantity := item.Quantity + delta
	if quantity < 0 {
		quantity = 0
	}

	if err := col.Update(ctx, id, map[string]any{"quantity": quantity}); err != nil {
		return nil, err
	}

	item.Quantity = quantity
	s.logger.Info("Inventory adjusted",
		zap.String("account_id", accountID),
		zap.String("item_id", id),
		zap.Float64("delta", delta),
		zap.Float64("quantity", quantity))
	return item, nil
}
