package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/shared"
)

// InMemoryBus dispatches events synchronously to subscribed handlers.
// It backs tests and single-process setups where no broker is running.
// Like the stream transport it makes no delivery-count guarantee to
// handlers, so the same idempotency rules apply.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

var _ shared.EventPublisher = (*InMemoryBus)(nil)

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger.Named("bus"),
	}
}

// Subscribe registers a handler for each event type it declares.
func (b *InMemoryBus) Subscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range handler.EventTypes() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Publish delivers each event to its handlers in order. The first
// handler error aborts the publish and is returned.
func (b *InMemoryBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		handlers := b.handlers[evt.EventType()]
		b.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler.Handle(ctx, evt); err != nil {
				b.logger.Error("handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("aggregate_key", evt.AggregateKey()),
					zap.Error(err),
				)
				return err
			}
		}
	}
	return nil
}
