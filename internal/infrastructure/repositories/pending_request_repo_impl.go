package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"giftroom.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingRequestRepository implements pending application operations
type PendingRequestRepository struct {
	db *gorm.DB
}

// NewPendingRequestRepository creates a new pending request repository
func NewPendingRequestRepository(db *gorm.DB) *PendingRequestRepository {
	return &PendingRequestRepository{db: db}
}

// Create inserts a pending request
func (r *PendingRequestRepository) Create(ctx context.Context, req *entities.PendingRequest) error {
	now := time.Now()
	m := &models.PendingRequest{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Kind:      req.Kind,
		Status:    string(req.Status),
		ExpiresAt: req.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	req.ID = m.ID
	req.CreatedAt = m.CreatedAt
	return nil
}

// RejectExpired auto-rejects PENDING requests past their review window
func (r *PendingRequestRepository) RejectExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.PendingRequest{}).
		Where("status = ? AND expires_at < ?", entities.RequestStatusPending, now).
		Updates(map[string]interface{}{
			"status":     string(entities.RequestStatusRejected),
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
