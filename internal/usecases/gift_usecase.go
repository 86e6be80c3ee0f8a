package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/domain/repositories"
	"giftroom.backend/pkg/events"
	"giftroom.backend/pkg/metrics"
	"github.com/google/uuid"
)

// operationTimeout bounds the wall-clock budget of one economic
// operation; past it the transaction aborts with no partial effect.
const operationTimeout = 30 * time.Second

// SplitConfig holds the commission ratios for gift proceeds. The three
// percentages must sum to 100; the integer-division remainder always goes
// to the platform share so the split is exact for every total.
type SplitConfig struct {
	PlatformPct    int
	ReceiverPct    int
	OwnerPct       int
	PlatformUserID uuid.UUID
}

// Validate checks the ratio set
func (c SplitConfig) Validate() error {
	if c.PlatformPct < 0 || c.ReceiverPct < 0 || c.OwnerPct < 0 {
		return fmt.Errorf("split percentages must be non-negative")
	}
	if c.PlatformPct+c.ReceiverPct+c.OwnerPct != 100 {
		return fmt.Errorf("split percentages must sum to 100, got %d", c.PlatformPct+c.ReceiverPct+c.OwnerPct)
	}
	return nil
}

// SplitProceeds divides totalPrice between platform, receiver and room
// owner. Receiver and owner shares are floored; the remainder lands on
// the platform, so the three shares always sum to totalPrice exactly.
func SplitProceeds(totalPrice int64, cfg SplitConfig) (platform, receiver, owner int64) {
	receiver = totalPrice * int64(cfg.ReceiverPct) / 100
	owner = totalPrice * int64(cfg.OwnerPct) / 100
	platform = totalPrice - receiver - owner
	return platform, receiver, owner
}

// GiftUsecase orchestrates a gift transfer: validation, commission split
// and the atomic multi-party balance move.
type GiftUsecase struct {
	giftRepo     repositories.GiftRepository
	giftSendRepo repositories.GiftSendRepository
	roomRepo     repositories.RoomRepository
	ledger       *WalletLedger
	guard        *IdempotencyGuard
	publisher    events.Publisher
	split        SplitConfig
}

// NewGiftUsecase creates a new gift usecase
func NewGiftUsecase(
	giftRepo repositories.GiftRepository,
	giftSendRepo repositories.GiftSendRepository,
	roomRepo repositories.RoomRepository,
	ledger *WalletLedger,
	guard *IdempotencyGuard,
	publisher events.Publisher,
	split SplitConfig,
) *GiftUsecase {
	return &GiftUsecase{
		giftRepo:     giftRepo,
		giftSendRepo: giftSendRepo,
		roomRepo:     roomRepo,
		ledger:       ledger,
		guard:        guard,
		publisher:    publisher,
		split:        split,
	}
}

// ListGifts lists the active gift catalog
func (u *GiftUsecase) ListGifts(ctx context.Context) ([]*entities.Gift, error) {
	return u.giftRepo.ListActive(ctx)
}

// SendGift performs one gift transfer. Replays of the same idempotency
// key return the original result without a second economic effect.
func (u *GiftUsecase) SendGift(ctx context.Context, senderID uuid.UUID, input *entities.SendGiftInput) (*entities.SendGiftResult, error) {
	receiverID, err := uuid.Parse(input.ReceiverID)
	if err != nil {
		return nil, domainerrors.ErrInvalidInput
	}
	giftID, err := uuid.Parse(input.GiftID)
	if err != nil {
		return nil, domainerrors.ErrInvalidInput
	}
	roomID, err := uuid.Parse(input.RoomID)
	if err != nil {
		return nil, domainerrors.ErrInvalidInput
	}

	// Validation order matters: self-gift first, then quantity, then
	// gift existence, then funds (checked by the debit leg itself).
	if senderID == receiverID {
		return nil, domainerrors.ErrSelfGift
	}
	if input.Quantity < 1 {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.IdempotencyKey == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	raw, replayed, err := u.guard.Do(ctx, "gift:"+input.IdempotencyKey, func(ctx context.Context) ([]byte, error) {
		result, err := u.execute(ctx, senderID, receiverID, giftID, roomID, input.Quantity, input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}

	var result entities.SendGiftResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode transfer result: %w", err)
	}
	if !replayed {
		metrics.GiftsSent.Inc()
	}
	return &result, nil
}

// execute runs the already-validated transfer. All legs share one storage
// transaction: debit sender, credit receiver, credit room owner, credit
// platform, insert the GiftSend record. Any failing leg unwinds them all.
func (u *GiftUsecase) execute(ctx context.Context, senderID, receiverID, giftID, roomID uuid.UUID, quantity int, idempotencyKey string) (*entities.SendGiftResult, error) {
	gift, err := u.giftRepo.GetByID(ctx, giftID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrGiftNotFound
		}
		return nil, err
	}
	if !gift.IsActive {
		return nil, domainerrors.ErrGiftNotFound
	}

	room, err := u.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	totalPrice := gift.Price * int64(quantity)
	platformShare, receiverShare, ownerShare := SplitProceeds(totalPrice, u.split)
	diamondsEarned := gift.DiamondValue * int64(quantity)

	meta := map[string]interface{}{
		"giftId":   giftID.String(),
		"roomId":   roomID.String(),
		"quantity": quantity,
	}

	var result *entities.SendGiftResult
	err = u.ledger.Transactionally(ctx, func(txCtx context.Context) error {
		debitEntry, err := u.ledger.Debit(txCtx, senderID, totalPrice, entities.TransactionTypeGiftSend, meta)
		if err != nil {
			return err
		}

		// A zero share writes no ledger entry; amounts are never zero.
		if receiverShare > 0 {
			if _, err := u.ledger.CreditWithDiamonds(txCtx, receiverID, receiverShare, diamondsEarned, entities.TransactionTypeGiftReceive, meta); err != nil {
				return err
			}
		}
		if ownerShare > 0 {
			if _, err := u.ledger.Credit(txCtx, room.OwnerID, ownerShare, entities.TransactionTypeGiftReceive, meta); err != nil {
				return err
			}
		}
		if platformShare > 0 {
			if _, err := u.ledger.Credit(txCtx, u.split.PlatformUserID, platformShare, entities.TransactionTypeGiftReceive, meta); err != nil {
				return err
			}
		}

		send := &entities.GiftSend{
			SenderID:       senderID,
			ReceiverID:     receiverID,
			GiftID:         giftID,
			Quantity:       quantity,
			TotalPrice:     totalPrice,
			RoomID:         roomID,
			IdempotencyKey: idempotencyKey,
		}
		if err := u.giftSendRepo.Create(txCtx, send); err != nil {
			return err
		}

		result = &entities.SendGiftResult{
			TransactionID:    send.ID,
			NewSenderBalance: debitEntry.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.publisher.Publish(ctx, entities.EventGiftSent, receiverID, map[string]interface{}{
		"senderId":   senderID.String(),
		"giftId":     giftID.String(),
		"roomId":     roomID.String(),
		"quantity":   quantity,
		"totalPrice": totalPrice,
	})
	return result, nil
}
