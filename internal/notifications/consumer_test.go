package notifications

import (
	"context"
	"encoding/json"
	"testing"

	pairingDomain "github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSender struct {
	recipients []uuid.UUID
	messages   []string
}

func (s *capturingSender) Send(ctx context.Context, userID uuid.UUID, message string) error {
	s.recipients = append(s.recipients, userID)
	s.messages = append(s.messages, message)
	return nil
}

func consumedEvent(t *testing.T, routingKey string, payload any) *eventbus.ConsumedEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: routingKey,
		Payload:    raw,
	}
}

func TestHandle_ConnectedNotifiesPartner(t *testing.T) {
	sender := &capturingSender{}
	consumer := NewConsumer(sender, nil)

	userID := uuid.New()
	partnerID := uuid.New()
	event := consumedEvent(t, pairingDomain.RoutingKeyConnected, map[string]any{
		"user_id":    userID,
		"partner_id": partnerID,
	})

	require.NoError(t, consumer.Handle(context.Background(), event))
	require.Len(t, sender.recipients, 1)
	assert.Equal(t, partnerID, sender.recipients[0])
	assert.Contains(t, sender.messages[0], "connected")
}

func TestHandle_InheritanceNotifiesUser(t *testing.T) {
	sender := &capturingSender{}
	consumer := NewConsumer(sender, nil)

	userID := uuid.New()
	event := consumedEvent(t, pairingDomain.RoutingKeySubscriptionInherited, map[string]any{
		"user_id":    userID,
		"partner_id": uuid.New(),
	})

	require.NoError(t, consumer.Handle(context.Background(), event))
	require.Len(t, sender.recipients, 1)
	assert.Equal(t, userID, sender.recipients[0])
	assert.Contains(t, sender.messages[0], "subscription")
}

func TestHandle_MalformedPayload(t *testing.T) {
	consumer := NewConsumer(&capturingSender{}, nil)

	event := &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: pairingDomain.RoutingKeyConnected,
		Payload:    []byte("not json"),
	}
	assert.Error(t, consumer.Handle(context.Background(), event))
}

func TestHandle_UnknownKeyIgnored(t *testing.T) {
	sender := &capturingSender{}
	consumer := NewConsumer(sender, nil)

	event := consumedEvent(t, "billing.invoice_paid", map[string]any{})
	require.NoError(t, consumer.Handle(context.Background(), event))
	assert.Empty(t, sender.recipients)
}

func TestEventTypes(t *testing.T) {
	consumer := NewConsumer(&capturingSender{}, nil)
	assert.Contains(t, consumer.EventTypes(), "pairing.connected")
	assert.Contains(t, consumer.EventTypes(), "content.pack_unlocked")
}
