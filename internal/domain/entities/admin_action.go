package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AdminAction is an audit record of a privileged operation
// (admin grant, revoke, balance adjustment, manual sweep).
type AdminAction struct {
	ID        uuid.UUID   `json:"id"`
	ActorID   uuid.UUID   `json:"actorId"`
	Action    string      `json:"action"`
	TargetID  *uuid.UUID  `json:"targetId,omitempty"`
	Reason    null.String `json:"reason,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
