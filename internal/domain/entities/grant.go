package entities

import (
	"time"

	"github.com/google/uuid"
)

// GrantType identifies a time-bound privilege
type GrantType string

const (
	GrantTypeVerification GrantType = "VERIFICATION"
	GrantTypeVIP          GrantType = "VIP"
)

// GrantStatus represents grant lifecycle state
type GrantStatus string

const (
	GrantStatusActive  GrantStatus = "ACTIVE"
	GrantStatusExpired GrantStatus = "EXPIRED"
)

// Grant is a time-bound privilege (verification badge or VIP). At most one
// row per (user, type); a new purchase after expiry recreates it.
type Grant struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Type      GrantType   `json:"type"`
	Status    GrantStatus `json:"status"`
	ExpiresAt time.Time   `json:"expiresAt"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// IsActive reports whether the grant is usable at the given instant.
func (g *Grant) IsActive(now time.Time) bool {
	return g.Status == GrantStatusActive && g.ExpiresAt.After(now)
}

// PurchaseGrantInput represents input for buying a grant
type PurchaseGrantInput struct {
	Type           string `json:"type" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
}

// AdminGrantInput represents input for granting a privilege without payment
type AdminGrantInput struct {
	UserID       string `json:"userId" binding:"required"`
	Type         string `json:"type" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required"`
}

// RevokeGrantInput represents input for revoking a grant
type RevokeGrantInput struct {
	UserID string `json:"userId" binding:"required"`
	Type   string `json:"type" binding:"required"`
	Reason string `json:"reason"`
}
