package entities

import (
	"time"

	"github.com/google/uuid"
)

// Room is a social room; the owner receives a share of gift proceeds.
type Room struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomMembership carries the time-bound moderation flags for a member.
// A ban or mute stays active until its deadline passes; the hourly sweep
// clears flags whose deadline is behind now.
type RoomMembership struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"roomId"`
	UserID      uuid.UUID  `json:"userId"`
	IsBanned    bool       `json:"isBanned"`
	BannedUntil *time.Time `json:"bannedUntil,omitempty"`
	IsMuted     bool       `json:"isMuted"`
	MutedUntil  *time.Time `json:"mutedUntil,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
