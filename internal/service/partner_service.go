package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
	"github.com/bluepond/aqualedger/pkg/utils"
)

func partnersPath(accountID string) string {
	return fmt.Sprintf("accounts/%s/partners", accountID)
}

// PartnerService manages the account owner's lab partners. Partners are
// created invited; every status change is an explicit owner action, never an
// automatic transition.
type PartnerService struct {
	backend store.Backend
	logger  *zap.Logger
}

// NewPartnerService creates a new partner service.
func NewPartnerService(backend store.Backend, logger *zap.Logger) *PartnerService {
	return &PartnerService{backend: backend, logger: logger}
}

func (s *PartnerService) collection(accountID string) *store.Collection[entity.LabPartner, *entity.LabPartner] {
	if accountID == "" {
		return store.NewCollection[entity.LabPartner](s.backend, partnersPath(""), store.WithoutAccount())
	}
	return store.NewCollection[entity.LabPartner](s.backend, partnersPath(accountID),
		store.WithOrder(store.OrderCreatedAsc))
}

// List returns the account's partners in invitation order.
func (s *PartnerService) List(ctx context.Context, accountID string) ([]*entity.LabPartner, error) {
	return s.collection(accountID).List(ctx)
}

// Get returns one partner.
func (s *PartnerService) Get(ctx context.Context, accountID, id string) (*entity.LabPartner, error) {
	return s.collection(accountID).Get(ctx, id)
}

// Invite creates a partner in the invited state.
func (s *PartnerService) Invite(ctx context.Context, accountID, email string) (*entity.LabPartner, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}

	partner := &entity.LabPartner{Email: email, Status: entity.PartnerInvited}
	if err := s.collection(accountID).Create(ctx, partner); err != nil {
		return nil, err
	}

	s.logger.Info("Partner invited",
		zap.String("account_id", accountID),
		zap.String("partner_id", partner.ID),
		zap.String("email", email))
	return partner, nil
}

// SetStatus transitions a partner to active or inactive by owner action.
func (s *PartnerService) SetStatus(ctx context.Context, accountID, id string, status entity.PartnerStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("unknown partner status: %q", status)
	}
	if err := s.collection(accountID).Update(ctx, id, map[string]any{"status": status}); err != nil {
		return err
	}

	s.logger.Info("Partner status changed",
		zap.String("account_id", accountID),
		zap.String("partner_id", id),
		zap.String("status", string(status)))
	return nil
}
