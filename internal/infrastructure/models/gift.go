package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gift struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Price        int64     `gorm:"not null"`
	DiamondValue int64     `gorm:"not null;default:0"`
	ImageURL     string    `gorm:"type:varchar(500)"`
	IsActive     bool      `gorm:"default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

type GiftSend struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SenderID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	ReceiverID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	GiftID         uuid.UUID      `gorm:"type:uuid;not null"`
	Quantity       int            `gorm:"not null"`
	TotalPrice     int64          `gorm:"not null"`
	RoomID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	IdempotencyKey string         `gorm:"type:varchar(128);not null;uniqueIndex"`
	CreatedAt      time.Time      `gorm:"index"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
