package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	EventTypes() []string
}

// EventPublisher publishes domain events to the broker.
// Delivery is at-least-once: consumers must tolerate duplicates.
type EventPublisher interface {
	// Publish hands one or more domain events to the broker
	Publish(ctx context.Context, events ...DomainEvent) error
}
