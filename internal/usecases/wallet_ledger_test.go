package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(store *fakeWalletStore) *usecases.WalletLedger {
	return usecases.NewWalletLedger(store, store, &passUnitOfWork{})
}

func TestWalletLedger_CreditAndDebit(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	userID := uuid.New()
	ctx := context.Background()

	entry, err := ledger.Credit(ctx, userID, 100, entities.TransactionTypePurchase, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), entry.Amount)
	assert.Equal(t, int64(0), entry.BalanceBefore)
	assert.Equal(t, int64(100), entry.BalanceAfter)
	assert.Equal(t, entities.TransactionStatusCompleted, entry.Status)

	entry, err = ledger.Debit(ctx, userID, 40, entities.TransactionTypeGiftSend, map[string]interface{}{"giftId": "g1"})
	require.NoError(t, err)
	assert.Equal(t, int64(-40), entry.Amount)
	assert.Equal(t, int64(100), entry.BalanceBefore)
	assert.Equal(t, int64(60), entry.BalanceAfter)
	assert.True(t, entry.Metadata.Valid)

	assert.Equal(t, int64(60), store.balanceOf(userID))
}

func TestWalletLedger_DebitInsufficientFunds(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	userID := uuid.New()
	store.seed(userID, 30)

	_, err := ledger.Debit(context.Background(), userID, 31, entities.TransactionTypeGiftSend, nil)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	// No partial effect: balance untouched, no ledger entry
	assert.Equal(t, int64(30), store.balanceOf(userID))
	assert.Empty(t, store.entries)
}

func TestWalletLedger_RejectsNonPositiveAmounts(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	ctx := context.Background()
	userID := uuid.New()

	_, err := ledger.Debit(ctx, userID, 0, entities.TransactionTypeGiftSend, nil)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = ledger.Credit(ctx, userID, -5, entities.TransactionTypePurchase, nil)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestWalletLedger_RetriesOnVersionConflict(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	userID := uuid.New()
	store.seed(userID, 50)
	store.failNextCAS = 2

	entry, err := ledger.Credit(context.Background(), userID, 10, entities.TransactionTypePurchase, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(60), entry.BalanceAfter)
}

func TestWalletLedger_GivesUpAfterMaxConflicts(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	userID := uuid.New()
	store.seed(userID, 50)
	store.failNextCAS = 100

	_, err := ledger.Credit(context.Background(), userID, 10, entities.TransactionTypePurchase, nil)
	assert.ErrorIs(t, err, domainerrors.ErrConcurrencyConflict)
}

func TestWalletLedger_CreditWithDiamonds(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	userID := uuid.New()

	_, err := ledger.CreditWithDiamonds(context.Background(), userID, 18, 5, entities.TransactionTypeGiftReceive, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(18), store.balanceOf(userID))
	assert.Equal(t, int64(5), store.diamondsOf(userID))
}

func TestWalletLedger_ConcurrentDebits_ExactlyOneWins(t *testing.T) {
	store := newFakeWalletStore()
	ledger := newLedger(store)
	userID := uuid.New()
	store.seed(userID, 100)

	// Two debits of 60 against a balance of 100: one must succeed, one
	// must fail with insufficient funds once the winner's write lands.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Debit(context.Background(), userID, 60, entities.TransactionTypeGiftSend, nil)
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrInsufficientFunds):
			insufficient++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(40), store.balanceOf(userID))

	// The ledger reconciles: one entry, sum matches the delta
	sum, err := store.SumAmounts(context.Background(), store.wallets[userID].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-60), sum)
}
