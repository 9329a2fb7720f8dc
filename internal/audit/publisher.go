// Package audit provides asynchronous capture of committed user mutations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userdock/userdock/internal/metrics"
)

const (
	// StreamKey is the Redis stream for audit events.
	StreamKey = "stream:user_audit"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:user_audit:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// EventPayload is the compact event format for the Redis stream.
type EventPayload struct {
	Action     string `json:"a"`
	UserID     int64  `json:"uid"`
	OccurredAt int64  `json:"t"` // Unix milliseconds
}

// Publisher enqueues audit events to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new audit event publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "audit.publisher"),
		metrics: recorder,
	}
}

// Publish adds an audit event to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, event EventPayload) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true, // ~MAXLEN for performance
		ID:     "*",  // Auto-generate ID
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget); an unreachable
// stream never fails or slows the mutation that produced the event.
func (p *Publisher) PublishAsync(action string, userID int64, occurredAt time.Time) {
	event := EventPayload{
		Action:     action,
		UserID:     userID,
		OccurredAt: occurredAt.UnixMilli(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, event)
		if err != nil {
			p.logger.Warn("failed to publish audit event",
				"action", event.Action,
				"user_id", event.UserID,
				"error", err,
			)
			p.metrics.IncAuditEventPublished("dropped")
			return
		}

		p.logger.Debug("audit event published",
			"action", event.Action,
			"user_id", event.UserID,
			"stream_id", streamID,
		)
		p.metrics.IncAuditEventPublished("success")
	}()
}

// ValidateEventPayload checks that a decoded payload is well formed.
func ValidateEventPayload(event EventPayload) error {
	if event.Action == "" {
		return fmt.Errorf("action is required")
	}
	if event.UserID <= 0 {
		return fmt.Errorf("user id must be positive, got %d", event.UserID)
	}
	if event.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at is required")
	}
	return nil
}
