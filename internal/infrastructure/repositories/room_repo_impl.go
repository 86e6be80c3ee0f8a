package repositories

import (
	"context"
	"errors"
	"time"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomRepository implements room data operations
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetByID gets a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Room, error) {
	var m models.Room
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Room{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// ReleaseExpiredBans clears ban flags whose deadline has passed
func (r *RoomRepository) ReleaseExpiredBans(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.RoomMembership{}).
		Where("is_banned = ? AND banned_until IS NOT NULL AND banned_until < ?", true, now).
		Updates(map[string]interface{}{
			"is_banned":    false,
			"banned_until": nil,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// ReleaseExpiredMutes clears mute flags whose deadline has passed
func (r *RoomRepository) ReleaseExpiredMutes(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.RoomMembership{}).
		Where("is_muted = ? AND muted_until IS NOT NULL AND muted_until < ?", true, now).
		Updates(map[string]interface{}{
			"is_muted":    false,
			"muted_until": nil,
			"updated_at":  now,
		})
	return result.RowsAffected, result.Error
}
