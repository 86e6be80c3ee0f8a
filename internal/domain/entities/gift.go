package entities

import (
	"time"

	"github.com/google/uuid"
)

// Gift is a catalog item that can be sent inside a room.
// Price is in coins; DiamondValue is what the receiver earns per unit.
type Gift struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	DiamondValue int64     `json:"diamondValue"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GiftSend records a completed gift transfer. IdempotencyKey is globally
// unique so a replayed request can never create a second record.
type GiftSend struct {
	ID             uuid.UUID `json:"id"`
	SenderID       uuid.UUID `json:"senderId"`
	ReceiverID     uuid.UUID `json:"receiverId"`
	GiftID         uuid.UUID `json:"giftId"`
	Quantity       int       `json:"quantity"`
	TotalPrice     int64     `json:"totalPrice"`
	RoomID         uuid.UUID `json:"roomId"`
	IdempotencyKey string    `json:"idempotencyKey"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SendGiftInput represents input for sending a gift
type SendGiftInput struct {
	ReceiverID     string `json:"receiverId" binding:"required"`
	GiftID         string `json:"giftId" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	RoomID         string `json:"roomId" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
}

// SendGiftResult is returned to the caller after a successful transfer.
type SendGiftResult struct {
	TransactionID    uuid.UUID `json:"transactionId"`
	NewSenderBalance int64     `json:"newSenderBalance"`
}
