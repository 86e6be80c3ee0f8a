package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// GrantRepository defines time-bound privilege operations
type GrantRepository interface {
	GetByUserAndType(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) (*entities.Grant, error)
	Create(ctx context.Context, grant *entities.Grant) error
	// Upsert creates the grant or overwrites an existing row for the same
	// (user, type), used by admin grants which bypass the renewal block.
	Upsert(ctx context.Context, grant *entities.Grant) error
	Delete(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) error
	// ExpireDue flips ACTIVE grants whose expiry has passed to EXPIRED and
	// returns the affected rows so events can be emitted per subject.
	ExpireDue(ctx context.Context, now time.Time) ([]*entities.Grant, error)
}
