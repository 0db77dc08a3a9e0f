package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// InProcessEventBus is the local-mode event transport: it implements
// Publisher and delivers each event synchronously to the registered
// consumers, standing in for the RabbitMQ exchange plus worker. Delivery
// is best-effort to match the broker path: consumer failures are logged,
// never returned to the publisher.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessEventBus creates an in-process bus with an empty registry.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer subscribes a consumer to its declared routing keys.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Registry exposes the underlying consumer registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}

// Publish decodes the envelope and dispatches it under the bus lock, so
// consumers observe events in publish order.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	event := &ConsumedEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		b.logger.Error("dropping undecodable event",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"error", err,
		)
		return nil
	}

	b.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
	)
	return nil
}

// Close is a no-op; the bus holds no external resources.
func (b *InProcessEventBus) Close() error {
	return nil
}
