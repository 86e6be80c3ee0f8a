package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypePurchase    TransactionType = "PURCHASE"
	TransactionTypeGiftSend    TransactionType = "GIFT_SEND"
	TransactionTypeGiftReceive TransactionType = "GIFT_RECEIVE"
	TransactionTypeAdminAdjust TransactionType = "ADMIN_ADJUST"
	TransactionTypeRefund      TransactionType = "REFUND"
)

// TransactionStatus represents ledger entry status
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// WalletTransaction is one immutable entry in the append-only balance ledger.
// Amount is signed (positive = credit, negative = debit) and never zero;
// BalanceAfter = BalanceBefore + Amount, both taken from the same atomic read
// that performed the mutation.
type WalletTransaction struct {
	ID            uuid.UUID         `json:"id"`
	WalletID      uuid.UUID         `json:"walletId"`
	Amount        int64             `json:"amount"`
	BalanceBefore int64             `json:"balanceBefore"`
	BalanceAfter  int64             `json:"balanceAfter"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Metadata      null.JSON         `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}
