package application

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/duet/internal/billing/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	byUser  map[uuid.UUID]*domain.Subscription
	upserts int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byUser: make(map[uuid.UUID]*domain.Subscription)}
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, sub *domain.Subscription) error {
	f.upserts++
	f.byUser[sub.UserID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	return f.byUser[userID], nil
}

func TestIsSubscribed_NoSubscription(t *testing.T) {
	svc := NewService(newFakeSubscriptionRepo())
	ok, err := svc.IsSubscribed(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsSubscribed_CanceledSubscription(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	userID := uuid.New()
	repo.byUser[userID] = &domain.Subscription{UserID: userID, Status: domain.SubscriptionCanceled}

	svc := NewService(repo)
	ok, err := svc.IsSubscribed(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGrantInherited_CreatesPartnerSourcedSubscription(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewService(repo)
	userID := uuid.New()
	partnerID := uuid.New()

	require.NoError(t, svc.GrantInherited(context.Background(), userID, partnerID))

	sub := repo.byUser[userID]
	require.NotNil(t, sub)
	require.Equal(t, domain.SourcePartner, sub.Source)
	require.Equal(t, domain.SubscriptionActive, sub.Status)
	require.NotNil(t, sub.PartnerID)
	require.Equal(t, partnerID, *sub.PartnerID)
	require.True(t, sub.IsInherited())
}

func TestGrantInherited_IdempotentPerPartner(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewService(repo)
	userID := uuid.New()
	partnerID := uuid.New()

	require.NoError(t, svc.GrantInherited(context.Background(), userID, partnerID))
	require.NoError(t, svc.GrantInherited(context.Background(), userID, partnerID))

	require.Equal(t, 1, repo.upserts)
}

func TestGrantInherited_DoesNotOverwritePurchase(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	userID := uuid.New()
	repo.byUser[userID] = &domain.Subscription{
		UserID: userID,
		Status: domain.SubscriptionActive,
		Source: domain.SourcePurchase,
	}

	svc := NewService(repo)
	require.NoError(t, svc.GrantInherited(context.Background(), userID, uuid.New()))

	require.Equal(t, 0, repo.upserts)
	require.Equal(t, domain.SourcePurchase, repo.byUser[userID].Source)
}

func TestGrantInherited_NilService(t *testing.T) {
	var svc *Service
	require.NoError(t, svc.GrantInherited(context.Background(), uuid.New(), uuid.New()))
}
