package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/shared"
)

// ErrPublishFailed is returned when an event could not be handed to the
// broker. The local state change that produced the event is already
// committed at that point; callers surface the failure rather than roll
// back.
var ErrPublishFailed = errors.New("event publish failed")

// Stream entry field names.
const (
	fieldEventID      = "event_id"
	fieldEventType    = "event_type"
	fieldAggregateKey = "aggregate_key"
	fieldPayload      = "payload"
)

// StreamPublisher publishes domain events onto a Redis stream. Delivery
// is at-least-once; consumers must tolerate duplicates.
type StreamPublisher struct {
	client     *redis.Client
	serializer *EventSerializer
	stream     string
	maxLen     int64
	logger     *zap.Logger
}

var _ shared.EventPublisher = (*StreamPublisher)(nil)

// NewStreamPublisher creates a publisher for the given stream. A maxLen
// of zero leaves the stream unbounded.
func NewStreamPublisher(client *redis.Client, serializer *EventSerializer, stream string, maxLen int64, logger *zap.Logger) *StreamPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamPublisher{
		client:     client,
		serializer: serializer,
		stream:     stream,
		maxLen:     maxLen,
		logger:     logger.Named("publisher"),
	}
}

// Publish appends the events to the stream in order. It stops at the
// first failure so the caller knows which events never left the process.
func (p *StreamPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		payload, err := p.serializer.Serialize(evt)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", evt.EventType(), err)
		}

		args := &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]any{
				fieldEventID:      evt.EventID().String(),
				fieldEventType:    evt.EventType(),
				fieldAggregateKey: evt.AggregateKey(),
				fieldPayload:      payload,
			},
		}
		if p.maxLen > 0 {
			args.MaxLen = p.maxLen
			args.Approx = true
		}

		id, err := p.client.XAdd(ctx, args).Result()
		if err != nil {
			p.logger.Error("event publish failed",
				zap.String("event_type", evt.EventType()),
				zap.String("aggregate_key", evt.AggregateKey()),
				zap.Error(err),
			)
			return fmt.Errorf("%s %s: %v: %w", evt.EventType(), evt.AggregateKey(), err, ErrPublishFailed)
		}

		p.logger.Debug("event published",
			zap.String("event_type", evt.EventType()),
			zap.String("aggregate_key", evt.AggregateKey()),
			zap.String("stream_id", id),
		)
	}
	return nil
}
