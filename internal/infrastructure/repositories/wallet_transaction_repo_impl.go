package repositories

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"giftroom.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// WalletTransactionRepository implements ledger data operations.
// Entries are append-only; there is deliberately no update or delete.
type WalletTransactionRepository struct {
	db *gorm.DB
}

// NewWalletTransactionRepository creates a new ledger repository
func NewWalletTransactionRepository(db *gorm.DB) *WalletTransactionRepository {
	return &WalletTransactionRepository{db: db}
}

// Create appends one ledger entry
func (r *WalletTransactionRepository) Create(ctx context.Context, tx *entities.WalletTransaction) error {
	m := &models.WalletTransaction{
		ID:            uuid.New(),
		WalletID:      tx.WalletID,
		Amount:        tx.Amount,
		BalanceBefore: tx.BalanceBefore,
		BalanceAfter:  tx.BalanceAfter,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		CreatedAt:     time.Now(),
	}
	if tx.Metadata.Valid {
		s := string(tx.Metadata.JSON)
		m.Metadata = &s
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.ID = m.ID
	tx.CreatedAt = m.CreatedAt
	return nil
}

// GetByWalletID gets ledger entries for a wallet with pagination
func (r *WalletTransactionRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.WalletTransaction
	if err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var txs []*entities.WalletTransaction
	for _, m := range ms {
		model := m
		txs = append(txs, r.toEntity(&model))
	}

	return txs, int(total), nil
}

// SumAmounts returns the signed sum over all entries of a wallet
func (r *WalletTransactionRepository) SumAmounts(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var sum int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *WalletTransactionRepository) toEntity(m *models.WalletTransaction) *entities.WalletTransaction {
	tx := &entities.WalletTransaction{
		ID:            m.ID,
		WalletID:      m.WalletID,
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Type:          entities.TransactionType(m.Type),
		Status:        entities.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
	if m.Metadata != nil {
		tx.Metadata = null.JSONFrom([]byte(*m.Metadata))
	}
	return tx
}
