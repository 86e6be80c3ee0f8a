package models

import (
	"time"

	"github.com/google/uuid"
)

type Grant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_grants_user_type,priority:1"`
	Type      string    `gorm:"type:varchar(50);not null;uniqueIndex:ux_grants_user_type,priority:2"`
	Status    string    `gorm:"type:varchar(50);not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AdminAction struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ActorID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Action    string     `gorm:"type:varchar(100);not null"`
	TargetID  *uuid.UUID `gorm:"type:uuid;index"`
	Reason    *string    `gorm:"type:text"`
	CreatedAt time.Time
}
