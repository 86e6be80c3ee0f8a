package usecases

import (
	"context"
	"fmt"
	"time"

	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/pkg/logger"
	"giftroom.backend/pkg/redis"
	"go.uber.org/zap"
)

const (
	idempotencyPrefix = "idempotency:"
	statusProcessing  = "processing"
)

// IdempotencyGuard deduplicates retried economic requests. The first
// caller for a key wins the SetNX registration and executes; a concurrent
// duplicate waits for the winner's durable result and receives it
// verbatim, so a key has at most one economic effect within the retention
// window. After eviction (24h) a reused key is treated as new — the
// unique idempotency_key column downstream remains the durable backstop.
type IdempotencyGuard struct {
	lockTTL      time.Duration
	retention    time.Duration
	pollInterval time.Duration
	waitBudget   time.Duration
}

// NewIdempotencyGuard creates a guard with production defaults
func NewIdempotencyGuard() *IdempotencyGuard {
	return &IdempotencyGuard{
		lockTTL:      30 * time.Second,
		retention:    24 * time.Hour,
		pollInterval: 100 * time.Millisecond,
		waitBudget:   30 * time.Second,
	}
}

// NewIdempotencyGuardWithTimings creates a guard with explicit timings (tests)
func NewIdempotencyGuardWithTimings(lockTTL, retention, pollInterval, waitBudget time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{
		lockTTL:      lockTTL,
		retention:    retention,
		pollInterval: pollInterval,
		waitBudget:   waitBudget,
	}
}

// Do runs fn at most once per key. The returned bool is true when the
// result came from a previous execution (idempotent replay) rather than
// from running fn now. A failed fn releases the key so the caller may
// retry.
func (g *IdempotencyGuard) Do(ctx context.Context, key string, fn func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	storageKey := idempotencyPrefix + key

	for {
		val, err := redis.Get(ctx, storageKey)
		if err == nil {
			if val != statusProcessing {
				return []byte(val), true, nil
			}
			result, err := g.waitForResult(ctx, storageKey)
			if err != nil {
				return nil, false, err
			}
			return result, true, nil
		}
		if !redis.IsNil(err) {
			return nil, false, fmt.Errorf("%w: %v", domainerrors.ErrStorageUnavailable, err)
		}

		ok, err := redis.SetNX(ctx, storageKey, statusProcessing, g.lockTTL)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", domainerrors.ErrStorageUnavailable, err)
		}
		if ok {
			break
		}
		// Lost the registration race; loop back and read the winner's state.
	}

	result, err := fn(ctx)
	if err != nil {
		if delErr := redis.Del(ctx, storageKey); delErr != nil {
			logger.Warn(ctx, "failed to release idempotency key", zap.String("key", key), zap.Error(delErr))
		}
		return nil, false, err
	}

	if err := redis.Set(ctx, storageKey, result, g.retention); err != nil {
		// The mutation is already committed; a replay within the window will
		// fall through to the unique-key constraint instead of the cache.
		logger.Warn(ctx, "failed to store idempotency result", zap.String("key", key), zap.Error(err))
	}
	return result, false, nil
}

func (g *IdempotencyGuard) waitForResult(ctx context.Context, storageKey string) ([]byte, error) {
	deadline := time.Now().Add(g.waitBudget)
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		val, err := redis.Get(ctx, storageKey)
		if err == nil && val != statusProcessing {
			return []byte(val), nil
		}
		if err != nil && redis.IsNil(err) {
			// Winner failed and released the key; tell the caller to retry.
			return nil, domainerrors.Conflict("original request failed, retry", domainerrors.ErrConcurrencyConflict)
		}

		if time.Now().After(deadline) {
			// Not a replayed success yet; the winner is still working, so
			// surface a retryable conflict rather than a duplicate.
			return nil, domainerrors.Conflict("original request still in progress, retry", domainerrors.ErrConcurrencyConflict)
		}
	}
}
