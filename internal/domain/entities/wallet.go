package entities

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's spendable coin balance and earned diamonds.
// Version increments on every balance write and backs the optimistic
// compare-and-swap in the ledger; Balance and Diamonds never go negative.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Balance   int64     `json:"balance"`
	Diamonds  int64     `json:"diamonds"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
