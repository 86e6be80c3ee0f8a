package repositories

import (
	"context"

	"giftroom.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// WalletRepository defines wallet data operations. Wallets are created
// lazily on first use and never deleted.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	// UpdateBalance writes new balance and diamond values conditioned on the
	// row still carrying the given version (compare-and-swap). Returns
	// ErrConcurrencyConflict when another writer got there first.
	UpdateBalance(ctx context.Context, walletID uuid.UUID, version, balance, diamonds int64) error
}

// WalletTransactionRepository defines ledger data operations.
// Entries are append-only and immutable once written.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx *entities.WalletTransaction) error
	GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error)
	// SumAmounts returns the signed sum over all entries of a wallet,
	// used to reconcile the ledger against the stored balance.
	SumAmounts(ctx context.Context, walletID uuid.UUID) (int64, error)
}
