package app

import (
	"context"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/duet/internal/shared/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/duet/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig() *config.Config {
	return &config.Config{
		AppEnv:                "test",
		LogLevel:              "error",
		UserID:                uuid.New().String(),
		SQLitePath:            ":memory:",
		PairingCodeTTL:        24 * time.Hour,
		FreeCategoryID:        "free-category",
		ReadinessMinimum:      0,
		ReadinessTimeout:      time.Second,
		ReadinessPollInterval: 50 * time.Millisecond,
	}
}

func TestNewContainer_LocalModeNeedsNoExternalServices(t *testing.T) {
	c, err := NewContainerWithConfig(context.Background(), localConfig())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.NotNil(t, c.SQLiteDB)
	assert.Nil(t, c.PgPool)
	assert.Nil(t, c.RedisClient)

	assert.NotNil(t, c.Billing)
	assert.NotNil(t, c.Pairing)
	assert.NotNil(t, c.Progress)
	assert.NotNil(t, c.Stream)
	assert.NotNil(t, c.Onboarding)
	assert.NotNil(t, c.Waiter)
	assert.NotNil(t, c.UnitOfWork)
}

func TestNewContainer_LocalModeUsesInProcessBus(t *testing.T) {
	c, err := NewContainerWithConfig(context.Background(), localConfig())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	bus, ok := c.EventPublisher.(*eventbus.InProcessEventBus)
	require.True(t, ok, "without RabbitMQ, events go through the in-process bus")
	assert.Contains(t, bus.Registry().GetAllEventTypes(), "pairing.connected",
		"notification consumers are registered on the local bus")
}

func TestNewContainer_RejectsInvalidUserID(t *testing.T) {
	cfg := localConfig()
	cfg.UserID = "not-a-uuid"

	_, err := NewContainerWithConfig(context.Background(), cfg)
	require.Error(t, err)
}

func TestContainer_LocalModeServicesWork(t *testing.T) {
	c, err := NewContainerWithConfig(context.Background(), localConfig())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	ctx := context.Background()

	issued, err := c.Pairing.GeneratePartnerCode(ctx)
	require.NoError(t, err)
	assert.Len(t, issued.Code.String(), 8)

	subscribed, err := c.Billing.IsSubscribed(ctx, c.UserID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	count, err := c.Progress.AccessibleItemCount(ctx, sharedDomain.NewCategoryID("free-category"), 96)
	require.NoError(t, err)
	assert.Equal(t, 32, count)
}
