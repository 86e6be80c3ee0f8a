package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GiftRepository implements gift catalog operations
type GiftRepository struct {
	db *gorm.DB
}

// NewGiftRepository creates a new gift repository
func NewGiftRepository(db *gorm.DB) *GiftRepository {
	return &GiftRepository{db: db}
}

// GetByID gets a gift by ID
func (r *GiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Gift, error) {
	var m models.Gift
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return giftToEntity(&m), nil
}

// ListActive lists gifts available for sending
func (r *GiftRepository) ListActive(ctx context.Context) ([]*entities.Gift, error) {
	var ms []models.Gift
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var gifts []*entities.Gift
	for _, m := range ms {
		model := m
		gifts = append(gifts, giftToEntity(&model))
	}
	return gifts, nil
}

func giftToEntity(m *models.Gift) *entities.Gift {
	return &entities.Gift{
		ID:           m.ID,
		Name:         m.Name,
		Price:        m.Price,
		DiamondValue: m.DiamondValue,
		ImageURL:     m.ImageURL,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// GiftSendRepository implements gift transfer record operations
type GiftSendRepository struct {
	db *gorm.DB
}

// NewGiftSendRepository creates a new gift send repository
func NewGiftSendRepository(db *gorm.DB) *GiftSendRepository {
	return &GiftSendRepository{db: db}
}

// Create inserts the transfer record. The unique index on idempotency_key
// turns a replay into ErrDuplicateRequest instead of a second record.
func (r *GiftSendRepository) Create(ctx context.Context, send *entities.GiftSend) error {
	m := &models.GiftSend{
		ID:             uuid.New(),
		SenderID:       send.SenderID,
		ReceiverID:     send.ReceiverID,
		GiftID:         send.GiftID,
		Quantity:       send.Quantity,
		TotalPrice:     send.TotalPrice,
		RoomID:         send.RoomID,
		IdempotencyKey: send.IdempotencyKey,
		CreatedAt:      time.Now(),
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return domainerrors.ErrDuplicateRequest
		}
		return err
	}
	send.ID = m.ID
	send.CreatedAt = m.CreatedAt
	return nil
}

// GetByIdempotencyKey gets a transfer record by its idempotency key
func (r *GiftSendRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.GiftSend, error) {
	var m models.GiftSend
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("idempotency_key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return giftSendToEntity(&m), nil
}

// HardDeleteOlderThan removes soft-deleted transfer records past the
// retention cutoff. Used by the daily sweep.
func (r *GiftSendRepository) HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.GiftSend{})
	return result.RowsAffected, result.Error
}

func giftSendToEntity(m *models.GiftSend) *entities.GiftSend {
	return &entities.GiftSend{
		ID:             m.ID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		GiftID:         m.GiftID,
		Quantity:       m.Quantity,
		TotalPrice:     m.TotalPrice,
		RoomID:         m.RoomID,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
	}
}

// isUniqueViolation covers drivers that surface constraint errors without
// mapping them to gorm.ErrDuplicatedKey (sqlite in tests, older pq).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
