package usecases

import (
	"context"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/domain/repositories"
	"giftroom.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WalletUsecase serves wallet queries and the balance mutations that do
// not involve a counterparty (top-up, admin adjustment).
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
	actionRepo repositories.AdminActionRepository
	ledger     *WalletLedger
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.WalletTransactionRepository,
	actionRepo repositories.AdminActionRepository,
	ledger *WalletLedger,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		actionRepo: actionRepo,
		ledger:     ledger,
	}
}

// GetWallet returns the user's wallet, creating it on first access
func (u *WalletUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetOrCreateByUserID(ctx, userID)
}

// GetHistory returns ledger entries for the user's wallet with pagination
func (u *WalletUsecase) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.WalletTransaction, utils.PaginationMeta, error) {
	wallet, err := u.walletRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	params := utils.GetPaginationParams(page, limit)
	txs, total, err := u.txRepo.GetByWalletID(ctx, wallet.ID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return txs, utils.CalculateMeta(int64(total), params.Page, params.Limit), nil
}

// TopUp credits purchased coins to the user's wallet
func (u *WalletUsecase) TopUp(ctx context.Context, userID uuid.UUID, amount int64, reference string) (*entities.WalletTransaction, error) {
	if amount <= 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	return u.ledger.Credit(ctx, userID, amount, entities.TransactionTypePurchase, map[string]interface{}{
		"reference": reference,
	})
}

// AdminAdjust applies a signed balance correction and records the action.
// A negative delta still cannot take the balance below zero.
func (u *WalletUsecase) AdminAdjust(ctx context.Context, userID uuid.UUID, delta int64, actorID uuid.UUID, reason string) (*entities.WalletTransaction, error) {
	if delta == 0 {
		return nil, domainerrors.ErrInvalidInput
	}

	var entry *entities.WalletTransaction
	err := u.ledger.Transactionally(ctx, func(txCtx context.Context) error {
		var err error
		meta := map[string]interface{}{"actorId": actorID.String(), "reason": reason}
		if delta > 0 {
			entry, err = u.ledger.Credit(txCtx, userID, delta, entities.TransactionTypeAdminAdjust, meta)
		} else {
			entry, err = u.ledger.Debit(txCtx, userID, -delta, entities.TransactionTypeAdminAdjust, meta)
		}
		if err != nil {
			return err
		}

		target := userID
		return u.actionRepo.Create(txCtx, &entities.AdminAction{
			ActorID:  actorID,
			Action:   "wallet.adjust",
			TargetID: &target,
			Reason:   null.StringFrom(reason),
		})
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Reconcile verifies the ledger invariant for one wallet: the signed sum
// of all entries must equal the current balance.
func (u *WalletUsecase) Reconcile(ctx context.Context, userID uuid.UUID) (bool, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	sum, err := u.txRepo.SumAmounts(ctx, wallet.ID)
	if err != nil {
		return false, err
	}
	return sum == wallet.Balance, nil
}
