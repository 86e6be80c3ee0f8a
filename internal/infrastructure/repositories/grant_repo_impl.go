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

// GrantRepository implements time-bound privilege operations
type GrantRepository struct {
	db *gorm.DB
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// GetByUserAndType gets the grant row for a user and kind
func (r *GrantRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) (*entities.Grant, error) {
	var m models.Grant
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ? AND type = ?", userID, grantType).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return grantToEntity(&m), nil
}

// Create inserts a new grant row
func (r *GrantRepository) Create(ctx context.Context, grant *entities.Grant) error {
	m := grantToModel(grant)
	m.ID = uuid.New()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	grant.ID = m.ID
	grant.CreatedAt = m.CreatedAt
	grant.UpdatedAt = m.UpdatedAt
	return nil
}

// Upsert creates the grant or overwrites the existing (user, type) row
func (r *GrantRepository) Upsert(ctx context.Context, grant *entities.Grant) error {
	db := GetDB(ctx, r.db)

	var existing models.Grant
	err := db.WithContext(ctx).Where("user_id = ? AND type = ?", grant.UserID, grant.Type).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.Create(ctx, grant)
		}
		return err
	}

	result := db.WithContext(ctx).Model(&models.Grant{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"status":     string(grant.Status),
			"expires_at": grant.ExpiresAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	grant.ID = existing.ID
	return nil
}

// Delete removes the grant row immediately (ACTIVE -> NONE)
func (r *GrantRepository) Delete(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, grantType).
		Delete(&models.Grant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ExpireDue flips ACTIVE grants past their expiry to EXPIRED and returns
// the affected rows. Idempotent: already-EXPIRED rows never match.
func (r *GrantRepository) ExpireDue(ctx context.Context, now time.Time) ([]*entities.Grant, error) {
	db := GetDB(ctx, r.db)

	var ms []models.Grant
	if err := db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", entities.GrantStatusActive, now).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, m := range ms {
		ids = append(ids, m.ID)
	}

	if err := db.WithContext(ctx).Model(&models.Grant{}).
		Where("id IN ? AND status = ?", ids, entities.GrantStatusActive).
		Updates(map[string]interface{}{
			"status":     string(entities.GrantStatusExpired),
			"updated_at": now,
		}).Error; err != nil {
		return nil, err
	}

	var grants []*entities.Grant
	for _, m := range ms {
		model := m
		model.Status = string(entities.GrantStatusExpired)
		grants = append(grants, grantToEntity(&model))
	}
	return grants, nil
}

func grantToEntity(m *models.Grant) *entities.Grant {
	return &entities.Grant{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      entities.GrantType(m.Type),
		Status:    entities.GrantStatus(m.Status),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func grantToModel(g *entities.Grant) *models.Grant {
	return &models.Grant{
		ID:        g.ID,
		UserID:    g.UserID,
		Type:      string(g.Type),
		Status:    string(g.Status),
		ExpiresAt: g.ExpiresAt,
	}
}
