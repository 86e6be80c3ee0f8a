package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// GiftRepository defines gift catalog operations
type GiftRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Gift, error)
	ListActive(ctx context.Context) ([]*entities.Gift, error)
}

// GiftSendRepository defines gift transfer record operations.
// Create must fail with ErrDuplicateRequest when the idempotency key
// already exists; the unique constraint is the durable backstop behind
// the redis idempotency guard.
type GiftSendRepository interface {
	Create(ctx context.Context, send *entities.GiftSend) error
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.GiftSend, error)
	HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
