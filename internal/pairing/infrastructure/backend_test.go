package infrastructure

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/felixgeelhaar/duet/internal/pairing/infrastructure/persistence"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type stubSubscriptions struct {
	subscribed map[uuid.UUID]bool
}

func (s stubSubscriptions) IsSubscribed(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.subscribed[userID], nil
}

func newTestBackend(t *testing.T, subs map[uuid.UUID]bool) *LocalBackend {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))

	return NewLocalBackend(
		persistence.NewMemoryCodeStore(),
		persistence.NewSQLiteConnectionRepository(db),
		stubSubscriptions{subscribed: subs},
		sharedPersistence.NewSQLiteUnitOfWork(db),
		time.Hour,
		nil,
	)
}

func TestLocalBackend_IssueAndRedeem(t *testing.T) {
	backend := newTestBackend(t, nil)
	ctx := context.Background()

	ownerID := uuid.New()
	redeemerID := uuid.New()

	issued, err := backend.IssueCode(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, issued.OwnerID)
	assert.False(t, issued.IsExpired(time.Now()))

	conn, err := backend.Redeem(ctx, issued.Code, redeemerID)
	require.NoError(t, err)
	assert.Equal(t, redeemerID, conn.UserID())
	assert.Equal(t, ownerID, conn.PartnerID())

	// Redeemed codes are single-use.
	_, err = backend.Redeem(ctx, issued.Code, uuid.New())
	require.ErrorIs(t, err, domain.ErrCodeNotFound)
}

func TestLocalBackend_SelfRedeemRejected(t *testing.T) {
	backend := newTestBackend(t, nil)
	ctx := context.Background()

	ownerID := uuid.New()
	issued, err := backend.IssueCode(ctx, ownerID)
	require.NoError(t, err)

	_, err = backend.Redeem(ctx, issued.Code, ownerID)
	require.ErrorIs(t, err, domain.ErrSelfPairing)
}

func TestLocalBackend_AlreadyPairedRejected(t *testing.T) {
	backend := newTestBackend(t, nil)
	ctx := context.Background()

	ownerID := uuid.New()
	issued, err := backend.IssueCode(ctx, ownerID)
	require.NoError(t, err)
	_, err = backend.Redeem(ctx, issued.Code, uuid.New())
	require.NoError(t, err)

	// The owner generates another code after pairing; redeeming it fails.
	second, err := backend.IssueCode(ctx, ownerID)
	require.NoError(t, err)
	_, err = backend.Redeem(ctx, second.Code, uuid.New())
	require.ErrorIs(t, err, domain.ErrAlreadyPaired)
}

func TestLocalBackend_FetchPartnerInfo(t *testing.T) {
	subscribedID := uuid.New()
	backend := newTestBackend(t, map[uuid.UUID]bool{subscribedID: true})
	ctx := context.Background()

	info, err := backend.FetchPartnerInfo(ctx, subscribedID)
	require.NoError(t, err)
	assert.True(t, info.IsSubscribed)

	info, err = backend.FetchPartnerInfo(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, info.IsSubscribed)
}
