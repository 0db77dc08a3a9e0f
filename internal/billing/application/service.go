package application

import (
	"context"
	"time"

	"github.com/felixgeelhaar/duet/internal/billing/domain"
	"github.com/google/uuid"
)

// Service provides subscription access and the inherited-benefit grant.
type Service struct {
	subscriptions domain.SubscriptionRepository
}

// NewService creates a new billing service.
func NewService(subscriptions domain.SubscriptionRepository) *Service {
	return &Service{subscriptions: subscriptions}
}

// GetSubscription returns the user's subscription, if any.
func (s *Service) GetSubscription(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	if s == nil || s.subscriptions == nil {
		return nil, nil
	}
	return s.subscriptions.FindByUserID(ctx, userID)
}

// IsSubscribed reports whether the user currently has an active subscription,
// purchased or inherited.
func (s *Service) IsSubscribed(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsActive(), nil
}

// GrantInherited records a partner-sourced subscription for the user.
// It is idempotent per partner: re-granting for the same partner is a no-op,
// and an existing purchase-sourced subscription is never overwritten.
func (s *Service) GrantInherited(ctx context.Context, userID, partnerID uuid.UUID) error {
	if s == nil || s.subscriptions == nil {
		return nil
	}

	existing, err := s.subscriptions.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Source == domain.SourcePurchase && existing.IsActive() {
			return nil
		}
		if existing.IsInherited() && existing.PartnerID != nil && *existing.PartnerID == partnerID && existing.IsActive() {
			return nil
		}
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.SubscriptionActive,
		Source:    domain.SourcePartner,
		PartnerID: &partnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	}

	return s.subscriptions.Upsert(ctx, sub)
}
