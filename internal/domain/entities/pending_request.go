package entities

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents pending request state
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// PendingRequest is an application (e.g. agent signup) awaiting review.
// Requests still PENDING past ExpiresAt are auto-rejected by the sweep.
type PendingRequest struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Kind      string        `json:"kind"`
	Status    RequestStatus `json:"status"`
	ExpiresAt time.Time     `json:"expiresAt"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
