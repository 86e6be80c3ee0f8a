package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/domain/repositories"
	"giftroom.backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

const (
	// maxBalanceAttempts bounds the compare-and-swap retry loop; beyond it
	// the conflict surfaces to the caller as retryable.
	maxBalanceAttempts = 5
	retryBackoffBase   = 10 * time.Millisecond
)

// WalletLedger owns balance mutations. Every successful debit or credit
// lands exactly one immutable ledger entry whose before/after values come
// from the same atomic read that performed the write; concurrent writers
// to the same wallet serialize through the version compare-and-swap.
type WalletLedger struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
	uow        repositories.UnitOfWork
}

// NewWalletLedger creates a new wallet ledger
func NewWalletLedger(
	walletRepo repositories.WalletRepository,
	txRepo repositories.WalletTransactionRepository,
	uow repositories.UnitOfWork,
) *WalletLedger {
	return &WalletLedger{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		uow:        uow,
	}
}

// Debit removes amount coins from the user's wallet. Fails with
// ErrInsufficientFunds when the balance would go negative; no partial
// write occurs.
func (l *WalletLedger) Debit(ctx context.Context, userID uuid.UUID, amount int64, txType entities.TransactionType, metadata map[string]interface{}) (*entities.WalletTransaction, error) {
	if amount <= 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	return l.apply(ctx, userID, -amount, 0, txType, metadata)
}

// Credit adds amount coins to the user's wallet
func (l *WalletLedger) Credit(ctx context.Context, userID uuid.UUID, amount int64, txType entities.TransactionType, metadata map[string]interface{}) (*entities.WalletTransaction, error) {
	if amount <= 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	return l.apply(ctx, userID, amount, 0, txType, metadata)
}

// CreditWithDiamonds adds coins and diamonds in the same atomic write;
// used for gift receipts where the receiver also earns diamonds.
func (l *WalletLedger) CreditWithDiamonds(ctx context.Context, userID uuid.UUID, amount, diamonds int64, txType entities.TransactionType, metadata map[string]interface{}) (*entities.WalletTransaction, error) {
	if amount <= 0 || diamonds < 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	return l.apply(ctx, userID, amount, diamonds, txType, metadata)
}

// Transactionally runs fn inside one storage transaction so that a
// multi-party move (several debits/credits plus record rows) commits or
// rolls back as a unit.
func (l *WalletLedger) Transactionally(ctx context.Context, fn func(ctx context.Context) error) error {
	return l.uow.Do(ctx, fn)
}

func (l *WalletLedger) apply(ctx context.Context, userID uuid.UUID, amountDelta, diamondDelta int64, txType entities.TransactionType, metadata map[string]interface{}) (*entities.WalletTransaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxBalanceAttempts; attempt++ {
		wallet, err := l.walletRepo.GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}

		newBalance := wallet.Balance + amountDelta
		if newBalance < 0 {
			return nil, domainerrors.ErrInsufficientFunds
		}
		newDiamonds := wallet.Diamonds + diamondDelta
		if newDiamonds < 0 {
			return nil, domainerrors.ErrInsufficientFunds
		}

		entry := &entities.WalletTransaction{
			WalletID:      wallet.ID,
			Amount:        amountDelta,
			BalanceBefore: wallet.Balance,
			BalanceAfter:  newBalance,
			Type:          txType,
			Status:        entities.TransactionStatusCompleted,
			Metadata:      encodeMetadata(metadata),
		}

		// The balance write and the ledger append commit or roll back
		// together; a failed append must not leave a mutated balance with
		// no entry behind it.
		err = l.uow.Do(ctx, func(txCtx context.Context) error {
			if err := l.walletRepo.UpdateBalance(txCtx, wallet.ID, wallet.Version, newBalance, newDiamonds); err != nil {
				return err
			}
			return l.txRepo.Create(txCtx, entry)
		})
		if errors.Is(err, domainerrors.ErrConcurrencyConflict) {
			metrics.WalletConflicts.Inc()
			lastErr = err
			sleepWithJitter(attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return entry, nil
	}
	return nil, lastErr
}

func sleepWithJitter(attempt int) {
	backoff := retryBackoffBase << uint(attempt)
	jitter := time.Duration(rand.Int63n(int64(retryBackoffBase)))
	time.Sleep(backoff + jitter)
}

func encodeMetadata(metadata map[string]interface{}) null.JSON {
	if len(metadata) == 0 {
		return null.JSON{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return null.JSON{}
	}
	return null.JSONFrom(data)
}
