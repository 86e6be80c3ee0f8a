package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"giftroom.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminActionRepository records privileged operations for audit
type AdminActionRepository struct {
	db *gorm.DB
}

// NewAdminActionRepository creates a new admin action repository
func NewAdminActionRepository(db *gorm.DB) *AdminActionRepository {
	return &AdminActionRepository{db: db}
}

// Create appends one audit record
func (r *AdminActionRepository) Create(ctx context.Context, action *entities.AdminAction) error {
	m := &models.AdminAction{
		ID:        uuid.New(),
		ActorID:   action.ActorID,
		Action:    action.Action,
		TargetID:  action.TargetID,
		CreatedAt: time.Now(),
	}
	if action.Reason.Valid {
		reason := action.Reason.String
		m.Reason = &reason
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	action.ID = m.ID
	action.CreatedAt = m.CreatedAt
	return nil
}
