package jobs

import (
	"context"
	"time"

	"giftroom.backend/internal/domain/entities"
	"giftroom.backend/internal/domain/repositories"
	"giftroom.backend/internal/usecases"
	"giftroom.backend/pkg/events"
	"github.com/google/uuid"
)

// Retention windows for the housekeeping sweeps.
const (
	notificationRetention = 30 * 24 * time.Hour
	giftSendRetention     = 90 * 24 * time.Hour
)

// Task is one background sweep. Run reconciles due rows and reports how
// many it touched; an error aborts only this task, never its siblings.
type Task interface {
	Name() string
	Cadence() Cadence
	Run(ctx context.Context) (int64, error)
}

// grantCacheInvalidator drops the cached grant status after the sweep
// flips a row to EXPIRED; satisfied by *usecases.GrantUsecase.
type grantCacheInvalidator interface {
	InvalidateStatusCache(ctx context.Context, userID uuid.UUID, grantType entities.GrantType)
}

// ExpireGrantsTask flips overdue ACTIVE grants to EXPIRED, invalidates
// their cached status and emits one expiry event per affected user.
type ExpireGrantsTask struct {
	grantRepo repositories.GrantRepository
	cache     grantCacheInvalidator
	publisher events.Publisher
}

func NewExpireGrantsTask(grantRepo repositories.GrantRepository, cache grantCacheInvalidator, publisher events.Publisher) *ExpireGrantsTask {
	return &ExpireGrantsTask{grantRepo: grantRepo, cache: cache, publisher: publisher}
}

func (t *ExpireGrantsTask) Name() string     { return "expire_grants" }
func (t *ExpireGrantsTask) Cadence() Cadence { return CadenceHourly }

func (t *ExpireGrantsTask) Run(ctx context.Context) (int64, error) {
	expired, err := t.grantRepo.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	for _, grant := range expired {
		t.cache.InvalidateStatusCache(ctx, grant.UserID, grant.Type)
		t.publisher.Publish(ctx, usecases.GrantExpiredEvent(grant.Type), grant.UserID, map[string]interface{}{
			"type":      string(grant.Type),
			"expiredAt": grant.ExpiresAt,
		})
	}
	return int64(len(expired)), nil
}

// ReleaseBansTask clears room bans whose deadline has passed
type ReleaseBansTask struct {
	roomRepo repositories.RoomRepository
}

func NewReleaseBansTask(roomRepo repositories.RoomRepository) *ReleaseBansTask {
	return &ReleaseBansTask{roomRepo: roomRepo}
}

func (t *ReleaseBansTask) Name() string     { return "release_bans" }
func (t *ReleaseBansTask) Cadence() Cadence { return CadenceHourly }

func (t *ReleaseBansTask) Run(ctx context.Context) (int64, error) {
	return t.roomRepo.ReleaseExpiredBans(ctx, time.Now())
}

// ReleaseMutesTask clears room mutes whose deadline has passed
type ReleaseMutesTask struct {
	roomRepo repositories.RoomRepository
}

func NewReleaseMutesTask(roomRepo repositories.RoomRepository) *ReleaseMutesTask {
	return &ReleaseMutesTask{roomRepo: roomRepo}
}

func (t *ReleaseMutesTask) Name() string     { return "release_mutes" }
func (t *ReleaseMutesTask) Cadence() Cadence { return CadenceHourly }

func (t *ReleaseMutesTask) Run(ctx context.Context) (int64, error) {
	return t.roomRepo.ReleaseExpiredMutes(ctx, time.Now())
}

// RejectStaleRequestsTask rejects pending join applications past their
// response window
type RejectStaleRequestsTask struct {
	requestRepo repositories.PendingRequestRepository
}

func NewRejectStaleRequestsTask(requestRepo repositories.PendingRequestRepository) *RejectStaleRequestsTask {
	return &RejectStaleRequestsTask{requestRepo: requestRepo}
}

func (t *RejectStaleRequestsTask) Name() string     { return "reject_stale_requests" }
func (t *RejectStaleRequestsTask) Cadence() Cadence { return CadenceHourly }

func (t *RejectStaleRequestsTask) Run(ctx context.Context) (int64, error) {
	return t.requestRepo.RejectExpired(ctx, time.Now())
}

// CleanupSessionsTask deletes expired presence sessions
type CleanupSessionsTask struct {
	cleanupRepo repositories.CleanupRepository
}

func NewCleanupSessionsTask(cleanupRepo repositories.CleanupRepository) *CleanupSessionsTask {
	return &CleanupSessionsTask{cleanupRepo: cleanupRepo}
}

func (t *CleanupSessionsTask) Name() string     { return "cleanup_sessions" }
func (t *CleanupSessionsTask) Cadence() Cadence { return CadenceFast }

func (t *CleanupSessionsTask) Run(ctx context.Context) (int64, error) {
	return t.cleanupRepo.DeleteExpiredSessions(ctx, time.Now())
}

// PurgeTokensTask deletes expired auth tokens
type PurgeTokensTask struct {
	cleanupRepo repositories.CleanupRepository
}

func NewPurgeTokensTask(cleanupRepo repositories.CleanupRepository) *PurgeTokensTask {
	return &PurgeTokensTask{cleanupRepo: cleanupRepo}
}

func (t *PurgeTokensTask) Name() string     { return "purge_tokens" }
func (t *PurgeTokensTask) Cadence() Cadence { return CadenceHourly }

func (t *PurgeTokensTask) Run(ctx context.Context) (int64, error) {
	return t.cleanupRepo.PurgeExpiredTokens(ctx, time.Now())
}

// PruneNotificationsTask deletes notifications past the retention window
type PruneNotificationsTask struct {
	cleanupRepo repositories.CleanupRepository
}

func NewPruneNotificationsTask(cleanupRepo repositories.CleanupRepository) *PruneNotificationsTask {
	return &PruneNotificationsTask{cleanupRepo: cleanupRepo}
}

func (t *PruneNotificationsTask) Name() string     { return "prune_notifications" }
func (t *PruneNotificationsTask) Cadence() Cadence { return CadenceHourly }

func (t *PruneNotificationsTask) Run(ctx context.Context) (int64, error) {
	return t.cleanupRepo.PruneNotifications(ctx, time.Now().Add(-notificationRetention))
}

// HardDeleteGiftSendsTask permanently removes soft-deleted gift records
// past the retention window. The ledger entries stay forever.
type HardDeleteGiftSendsTask struct {
	giftSendRepo repositories.GiftSendRepository
}

func NewHardDeleteGiftSendsTask(giftSendRepo repositories.GiftSendRepository) *HardDeleteGiftSendsTask {
	return &HardDeleteGiftSendsTask{giftSendRepo: giftSendRepo}
}

func (t *HardDeleteGiftSendsTask) Name() string     { return "hard_delete_gift_sends" }
func (t *HardDeleteGiftSendsTask) Cadence() Cadence { return CadenceDaily }

func (t *HardDeleteGiftSendsTask) Run(ctx context.Context) (int64, error) {
	return t.giftSendRepo.HardDeleteOlderThan(ctx, time.Now().Add(-giftSendRetention))
}
