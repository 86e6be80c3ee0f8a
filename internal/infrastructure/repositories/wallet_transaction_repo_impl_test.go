package repositories

import (
	"context"
	"testing"
	"time"

	"giftroom.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestWalletTransactionRepository_Create(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletTransactionRepository(db)

	walletID := uuid.New()
	entry := &entities.WalletTransaction{
		WalletID:      walletID,
		Amount:        -60,
		BalanceBefore: 100,
		BalanceAfter:  40,
		Type:          entities.TransactionTypeGiftSend,
		Status:        entities.TransactionStatusCompleted,
		Metadata:      null.JSONFrom([]byte(`{"gift_id":"g-1"}`)),
	}

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, total, err := repo.GetByWalletID(context.Background(), walletID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-60), entries[0].Amount)
	assert.Equal(t, entities.TransactionTypeGiftSend, entries[0].Type)
	assert.True(t, entries[0].Metadata.Valid)
}

func TestWalletTransactionRepository_PaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletTransactionRepository(db)
	walletID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		mustExec(t, db,
			`INSERT INTO wallet_transactions (id, wallet_id, amount, balance_before, balance_after, type, status, created_at)
			 VALUES (?, ?, ?, 0, 0, 'PURCHASE', 'COMPLETED', ?)`,
			uuid.New(), walletID, int64(i+1)*10, base.Add(time.Duration(i)*time.Minute))
	}

	entries, total, err := repo.GetByWalletID(context.Background(), walletID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(30), entries[0].Amount, "newest entry comes first")
	assert.Equal(t, int64(20), entries[1].Amount)

	entries, _, err = repo.GetByWalletID(context.Background(), walletID, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10), entries[0].Amount)
}

func TestWalletTransactionRepository_SumAmounts(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletTransactionRepository(db)
	walletID := uuid.New()
	ctx := context.Background()

	sum, err := repo.SumAmounts(ctx, walletID)
	require.NoError(t, err)
	assert.Zero(t, sum, "empty ledger sums to zero")

	for _, amount := range []int64{100, -60, 25} {
		entry := &entities.WalletTransaction{
			WalletID: walletID,
			Amount:   amount,
			Type:     entities.TransactionTypePurchase,
			Status:   entities.TransactionStatusCompleted,
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	sum, err = repo.SumAmounts(ctx, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(65), sum)
}
