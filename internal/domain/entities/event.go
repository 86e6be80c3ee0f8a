package entities

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a realtime notification
type EventType string

const (
	EventGiftSent            EventType = "gift_sent"
	EventVerificationUpdated EventType = "verification_updated"
	EventVerificationExpired EventType = "verification_expired"
	EventVerificationRevoked EventType = "verification_revoked"
	EventVIPUpdated          EventType = "vip_updated"
	EventVIPExpired          EventType = "vip_expired"
	EventVIPRevoked          EventType = "vip_revoked"
)

// Event is a best-effort notification emitted after a state mutation has
// committed. Delivery is fire-and-forget; no correctness property may
// depend on it reaching a consumer.
type Event struct {
	Type      EventType              `json:"type"`
	SubjectID uuid.UUID              `json:"subjectId"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
