// Package notifications turns domain events into partner-facing push
// notifications. Delivery is delegated to a Sender; the default sender
// only logs, which is what local mode wants.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	contentApp "github.com/felixgeelhaar/duet/internal/content/application"
	pairingDomain "github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Sender delivers one notification to one user.
type Sender interface {
	Send(ctx context.Context, userID uuid.UUID, message string) error
}

// LogSender writes notifications to the log instead of a push gateway.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(ctx context.Context, userID uuid.UUID, message string) error {
	s.logger.Info("notification", "user_id", userID, "message", message)
	return nil
}

// Consumer reacts to pairing and content events.
type Consumer struct {
	sender Sender
	logger *slog.Logger
}

// NewConsumer creates the notification consumer.
func NewConsumer(sender Sender, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{sender: sender, logger: logger}
}

// EventTypes returns the routing keys this consumer handles.
func (c *Consumer) EventTypes() []string {
	return []string{
		pairingDomain.RoutingKeyConnected,
		pairingDomain.RoutingKeySubscriptionInherited,
		contentApp.RoutingKeyPackUnlocked,
	}
}

// Handle processes the event.
func (c *Consumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	switch event.RoutingKey {
	case pairingDomain.RoutingKeyConnected:
		var payload pairingDomain.PartnersConnected
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode connected event: %w", err)
		}
		return c.sender.Send(ctx, payload.PartnerID, "Your partner just connected with you on Duet!")

	case pairingDomain.RoutingKeySubscriptionInherited:
		var payload pairingDomain.SubscriptionInherited
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode inheritance event: %w", err)
		}
		return c.sender.Send(ctx, payload.UserID, "Your partner's subscription now covers you too.")

	case contentApp.RoutingKeyPackUnlocked:
		var payload contentApp.PackUnlocked
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode pack unlocked event: %w", err)
		}
		message := fmt.Sprintf("New questions unlocked in %s. Keep the conversation going!", payload.CategoryID)
		return c.sender.Send(ctx, payload.UserID, message)

	default:
		c.logger.Debug("ignoring event", "routing_key", event.RoutingKey)
		return nil
	}
}
