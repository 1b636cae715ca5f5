package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/shared"
)

// StreamConsumer reads domain events from a Redis stream through a
// consumer group. Entries are acknowledged only after their handlers
// succeed, so a crash or handler failure leads to redelivery. Handlers
// must therefore be idempotent.
type StreamConsumer struct {
	client       *redis.Client
	serializer   *EventSerializer
	stream       string
	group        string
	consumer     string
	block        time.Duration
	claimMinIdle time.Duration
	handlers     map[string][]shared.EventHandler
	logger       *zap.Logger
}

// NewStreamConsumer creates a consumer bound to a stream and group.
func NewStreamConsumer(client *redis.Client, serializer *EventSerializer, stream, group, consumer string, block, claimMinIdle time.Duration, logger *zap.Logger) *StreamConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamConsumer{
		client:       client,
		serializer:   serializer,
		stream:       stream,
		group:        group,
		consumer:     consumer,
		block:        block,
		claimMinIdle: claimMinIdle,
		handlers:     make(map[string][]shared.EventHandler),
		logger:       logger.Named("consumer"),
	}
}

// Subscribe registers a handler for each event type it declares.
func (c *StreamConsumer) Subscribe(handler shared.EventHandler) {
	for _, eventType := range handler.EventTypes() {
		c.handlers[eventType] = append(c.handlers[eventType], handler)
	}
}

// Start creates the consumer group if needed and processes entries until
// ctx is cancelled. It first reclaims entries another consumer left
// pending longer than the claim idle threshold, then reads new ones.
func (c *StreamConsumer) Start(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("consumer started",
		zap.String("stream", c.stream),
		zap.String("group", c.group),
		zap.String("consumer", c.consumer),
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		c.claimStale(ctx)

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, ">"},
			Count:    32,
			Block:    c.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			c.logger.Error("stream read failed", zap.Error(err))
			if sleepErr := sleepContext(ctx, time.Second); sleepErr != nil {
				return nil
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *StreamConsumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// claimStale takes over entries a dead consumer in the group never acked.
func (c *StreamConsumer) claimStale(ctx context.Context) {
	msgs, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.consumer,
		MinIdle:  c.claimMinIdle,
		Start:    "0-0",
		Count:    16,
	}).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			c.logger.Warn("pending claim failed", zap.Error(err))
		}
		return
	}
	for _, msg := range msgs {
		c.process(ctx, msg)
	}
}

// process dispatches one stream entry. The entry is acked when every
// handler returns nil. Entries that cannot be decoded are acked too, so
// a malformed payload does not block the group forever.
func (c *StreamConsumer) process(ctx context.Context, msg redis.XMessage) {
	eventType, _ := msg.Values[fieldEventType].(string)
	payload, _ := msg.Values[fieldPayload].(string)

	evt, err := c.serializer.Deserialize(eventType, []byte(payload))
	if err != nil {
		c.logger.Error("discarding undecodable entry",
			zap.String("stream_id", msg.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		c.ack(ctx, msg.ID)
		return
	}

	for _, handler := range c.handlers[eventType] {
		if err := handler.Handle(ctx, evt); err != nil {
			c.logger.Error("handler failed, entry will be redelivered",
				zap.String("stream_id", msg.ID),
				zap.String("event_type", eventType),
				zap.String("aggregate_key", evt.AggregateKey()),
				zap.Error(err),
			)
			return
		}
	}

	c.ack(ctx, msg.ID)
}

func (c *StreamConsumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.stream, c.group, id).Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn("ack failed", zap.String("stream_id", id), zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
