package eventbus

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/duet/internal/shared/domain"
)

// MarshalEnvelope wraps a domain event in the wire envelope consumed by the
// bus: envelope fields come from the DomainEvent interface, the event's own
// exported fields become the payload.
func MarshalEnvelope(event domain.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	envelope := ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}
	return json.Marshal(envelope)
}

// PublishEvent marshals a domain event and sends it through the publisher.
// A nil publisher is a no-op so components can run without a bus.
func PublishEvent(ctx context.Context, publisher Publisher, event domain.DomainEvent) error {
	if publisher == nil {
		return nil
	}
	payload, err := MarshalEnvelope(event)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, event.RoutingKey(), payload)
}
