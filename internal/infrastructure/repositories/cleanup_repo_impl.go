package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// CleanupRepository implements the housekeeping deletes run by the sweeps
type CleanupRepository struct {
	db *gorm.DB
}

// NewCleanupRepository creates a new cleanup repository
func NewCleanupRepository(db *gorm.DB) *CleanupRepository {
	return &CleanupRepository{db: db}
}

// DeleteExpiredSessions removes transient presence/session rows past expiry
func (r *CleanupRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// PurgeExpiredTokens removes auth tokens past expiry
func (r *CleanupRepository) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.AuthToken{})
	return result.RowsAffected, result.Error
}

// PruneNotifications removes read notifications older than the cutoff
func (r *CleanupRepository) PruneNotifications(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, olderThan).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
