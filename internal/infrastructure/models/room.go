package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type RoomMembership struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RoomID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_memberships_room_user,priority:1"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_memberships_room_user,priority:2"`
	IsBanned    bool       `gorm:"default:false;index"`
	BannedUntil *time.Time `gorm:"index"`
	IsMuted     bool       `gorm:"default:false;index"`
	MutedUntil  *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PendingRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(50);not null"`
	Status    string    `gorm:"type:varchar(50);not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
