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
	"giftroom.backend/pkg/logger"
	"giftroom.backend/pkg/metrics"
	"giftroom.backend/pkg/redis"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// GrantPackage is the purchasable offer for one grant kind
type GrantPackage struct {
	Price    int64
	Duration time.Duration
}

// GrantConfig maps grant kinds to their packages
type GrantConfig map[entities.GrantType]GrantPackage

// GrantView is the cached answer to "does this user hold this grant".
// Status is NONE when no row exists.
type GrantView struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

const grantCacheTTL = 3 * time.Minute

// GrantUsecase manages time-bound privileges: paid purchase, admin grant,
// revocation and cached status queries.
type GrantUsecase struct {
	grantRepo  repositories.GrantRepository
	actionRepo repositories.AdminActionRepository
	ledger     *WalletLedger
	guard      *IdempotencyGuard
	publisher  events.Publisher
	packages   GrantConfig
}

// NewGrantUsecase creates a new grant usecase
func NewGrantUsecase(
	grantRepo repositories.GrantRepository,
	actionRepo repositories.AdminActionRepository,
	ledger *WalletLedger,
	guard *IdempotencyGuard,
	publisher events.Publisher,
	packages GrantConfig,
) *GrantUsecase {
	return &GrantUsecase{
		grantRepo:  grantRepo,
		actionRepo: actionRepo,
		ledger:     ledger,
		guard:      guard,
		publisher:  publisher,
		packages:   packages,
	}
}

// Purchase buys a grant for the calling user. Rejects with
// ErrGrantAlreadyActive while a grant of the same kind is still running —
// renewal before expiry is blocked, matching upstream product behavior.
// Debit and grant creation commit atomically; idempotent per key.
func (u *GrantUsecase) Purchase(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, idempotencyKey string) (*entities.Grant, error) {
	pkg, ok := u.packages[grantType]
	if !ok {
		return nil, domainerrors.ErrInvalidInput
	}
	if idempotencyKey == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	raw, replayed, err := u.guard.Do(ctx, "grant:"+idempotencyKey, func(ctx context.Context) ([]byte, error) {
		grant, err := u.executePurchase(ctx, userID, grantType, pkg)
		if err != nil {
			return nil, err
		}
		return json.Marshal(grant)
	})
	if err != nil {
		return nil, err
	}

	var grant entities.Grant
	if err := json.Unmarshal(raw, &grant); err != nil {
		return nil, fmt.Errorf("failed to decode grant result: %w", err)
	}
	if !replayed {
		metrics.GrantPurchases.WithLabelValues(string(grantType)).Inc()
	}
	return &grant, nil
}

func (u *GrantUsecase) executePurchase(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, pkg GrantPackage) (*entities.Grant, error) {
	now := time.Now()

	existing, err := u.grantRepo.GetByUserAndType(ctx, userID, grantType)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsActive(now) {
		return nil, domainerrors.ErrGrantAlreadyActive
	}

	grant := &entities.Grant{
		UserID:    userID,
		Type:      grantType,
		Status:    entities.GrantStatusActive,
		ExpiresAt: now.Add(pkg.Duration),
	}

	err = u.ledger.Transactionally(ctx, func(txCtx context.Context) error {
		if _, err := u.ledger.Debit(txCtx, userID, pkg.Price, entities.TransactionTypePurchase, map[string]interface{}{
			"grantType": string(grantType),
		}); err != nil {
			return err
		}
		// Upsert: an expired row for the same (user, type) is overwritten.
		return u.grantRepo.Upsert(txCtx, grant)
	})
	if err != nil {
		return nil, err
	}

	u.InvalidateStatusCache(ctx, userID, grantType)
	u.publisher.Publish(ctx, grantUpdatedEvent(grantType), userID, map[string]interface{}{
		"type":      string(grantType),
		"expiresAt": grant.ExpiresAt,
	})
	return grant, nil
}

// AdminGrant creates or overwrites a grant without payment and records
// the administrative action.
func (u *GrantUsecase) AdminGrant(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, durationDays int, actorID uuid.UUID) (*entities.Grant, error) {
	if _, ok := u.packages[grantType]; !ok {
		return nil, domainerrors.ErrInvalidInput
	}
	if durationDays < 1 {
		return nil, domainerrors.ErrInvalidInput
	}

	grant := &entities.Grant{
		UserID:    userID,
		Type:      grantType,
		Status:    entities.GrantStatusActive,
		ExpiresAt: time.Now().Add(time.Duration(durationDays) * 24 * time.Hour),
	}

	err := u.ledger.Transactionally(ctx, func(txCtx context.Context) error {
		if err := u.grantRepo.Upsert(txCtx, grant); err != nil {
			return err
		}
		target := userID
		return u.actionRepo.Create(txCtx, &entities.AdminAction{
			ActorID:  actorID,
			Action:   "grant.admin_grant",
			TargetID: &target,
			Reason:   null.StringFrom(fmt.Sprintf("%s for %d days", grantType, durationDays)),
		})
	})
	if err != nil {
		return nil, err
	}

	u.InvalidateStatusCache(ctx, userID, grantType)
	u.publisher.Publish(ctx, grantUpdatedEvent(grantType), userID, map[string]interface{}{
		"type":      string(grantType),
		"expiresAt": grant.ExpiresAt,
	})
	return grant, nil
}

// Revoke deletes the grant immediately (ACTIVE -> NONE), records the
// action and emits a revocation event.
func (u *GrantUsecase) Revoke(ctx context.Context, userID uuid.UUID, grantType entities.GrantType, actorID uuid.UUID, reason string) error {
	err := u.ledger.Transactionally(ctx, func(txCtx context.Context) error {
		if err := u.grantRepo.Delete(txCtx, userID, grantType); err != nil {
			return err
		}
		target := userID
		return u.actionRepo.Create(txCtx, &entities.AdminAction{
			ActorID:  actorID,
			Action:   "grant.revoke",
			TargetID: &target,
			Reason:   null.StringFrom(reason),
		})
	})
	if err != nil {
		return err
	}

	u.InvalidateStatusCache(ctx, userID, grantType)
	u.publisher.Publish(ctx, grantRevokedEvent(grantType), userID, map[string]interface{}{
		"type":   string(grantType),
		"reason": reason,
	})
	return nil
}

// GetStatus answers a status query, served from a short-lived cache.
func (u *GrantUsecase) GetStatus(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) (*GrantView, error) {
	cacheKey := grantCacheKey(userID, grantType)
	if cached, err := redis.Get(ctx, cacheKey); err == nil {
		var view GrantView
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			return &view, nil
		}
	}

	view := &GrantView{Status: "NONE"}
	grant, err := u.grantRepo.GetByUserAndType(ctx, userID, grantType)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if grant != nil {
		view.Status = string(grant.Status)
		expiresAt := grant.ExpiresAt
		view.ExpiresAt = &expiresAt
	}

	if data, err := json.Marshal(view); err == nil {
		if err := redis.Set(ctx, cacheKey, data, grantCacheTTL); err != nil {
			logger.Debug(ctx, "grant status cache write failed", zap.Error(err))
		}
	}
	return view, nil
}

// InvalidateStatusCache drops the cached status for a user/kind. Every
// mutation calls this before returning.
func (u *GrantUsecase) InvalidateStatusCache(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) {
	if err := redis.Del(ctx, grantCacheKey(userID, grantType)); err != nil {
		logger.Warn(ctx, "grant status cache invalidation failed",
			zap.String("user_id", userID.String()),
			zap.String("type", string(grantType)),
			zap.Error(err),
		)
	}
}

func grantCacheKey(userID uuid.UUID, grantType entities.GrantType) string {
	return fmt.Sprintf("grant:%s:%s", userID, grantType)
}

func grantUpdatedEvent(grantType entities.GrantType) entities.EventType {
	if grantType == entities.GrantTypeVIP {
		return entities.EventVIPUpdated
	}
	return entities.EventVerificationUpdated
}

func grantRevokedEvent(grantType entities.GrantType) entities.EventType {
	if grantType == entities.GrantTypeVIP {
		return entities.EventVIPRevoked
	}
	return entities.EventVerificationRevoked
}

// GrantExpiredEvent maps a grant kind to its expiry event; used by the
// sweep when flipping grants to EXPIRED.
func GrantExpiredEvent(grantType entities.GrantType) entities.EventType {
	if grantType == entities.GrantTypeVIP {
		return entities.EventVIPExpired
	}
	return entities.EventVerificationExpired
}
