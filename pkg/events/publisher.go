package events

import (
	"context"
	"encoding/json"
	"time"

	"giftroom.backend/internal/domain/entities"
	"giftroom.backend/pkg/logger"
	"giftroom.backend/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Channel is the pub/sub channel the realtime layer subscribes to
const Channel = "giftroom:events"

// Publisher delivers typed notifications to realtime consumers.
// Delivery is best-effort, at most once: a publish failure is logged and
// swallowed, never rolled back into the mutation that triggered it.
type Publisher interface {
	Publish(ctx context.Context, eventType entities.EventType, subjectID uuid.UUID, payload map[string]interface{})
}

// RedisPublisher publishes events over redis pub/sub
type RedisPublisher struct{}

// NewRedisPublisher creates a new redis publisher
func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{}
}

// Publish emits one event. Errors are logged only.
func (p *RedisPublisher) Publish(ctx context.Context, eventType entities.EventType, subjectID uuid.UUID, payload map[string]interface{}) {
	event := entities.Event{
		Type:      eventType,
		SubjectID: subjectID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "failed to encode event", zap.String("type", string(eventType)), zap.Error(err))
		return
	}

	if err := redis.Publish(ctx, Channel, data); err != nil {
		logger.Warn(ctx, "event publish failed",
			zap.String("type", string(eventType)),
			zap.String("subject_id", subjectID.String()),
			zap.Error(err),
		)
	}
}
