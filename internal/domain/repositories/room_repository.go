package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// RoomRepository defines room data operations
type RoomRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Room, error)
	// ReleaseExpiredBans clears ban flags whose deadline has passed.
	// Re-running on already-released rows is a no-op.
	ReleaseExpiredBans(ctx context.Context, now time.Time) (int64, error)
	ReleaseExpiredMutes(ctx context.Context, now time.Time) (int64, error)
}

// PendingRequestRepository defines pending application operations
type PendingRequestRepository interface {
	Create(ctx context.Context, req *entities.PendingRequest) error
	RejectExpired(ctx context.Context, now time.Time) (int64, error)
}

// AdminActionRepository records privileged operations for audit
type AdminActionRepository interface {
	Create(ctx context.Context, action *entities.AdminAction) error
}

// CleanupRepository groups the housekeeping deletes run by the sweep
// scheduler: transient presence rows, stale tokens, old notifications.
type CleanupRepository interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
	PruneNotifications(ctx context.Context, olderThan time.Time) (int64, error)
}
