package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainerrors "giftroom.backend/internal/domain/errors"
	"giftroom.backend/internal/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGuard() *usecases.IdempotencyGuard {
	return usecases.NewIdempotencyGuardWithTimings(
		5*time.Second, // lockTTL
		time.Hour,     // retention
		5*time.Millisecond,
		300*time.Millisecond,
	)
}

func TestIdempotencyGuard_FirstRunExecutes(t *testing.T) {
	startMiniRedis(t)
	guard := testGuard()

	calls := 0
	result, replayed, err := guard.Do(context.Background(), "key-1", func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{"ok":true}`), nil
	})
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, `{"ok":true}`, string(result))
	assert.Equal(t, 1, calls)
}

func TestIdempotencyGuard_ReplayReturnsStoredResult(t *testing.T) {
	startMiniRedis(t)
	guard := testGuard()
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{"n":1}`), nil
	}

	_, replayed, err := guard.Do(ctx, "key-2", fn)
	require.NoError(t, err)
	assert.False(t, replayed)

	result, replayed, err := guard.Do(ctx, "key-2", fn)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, `{"n":1}`, string(result))
	assert.Equal(t, 1, calls, "fn must run at most once per key")
}

func TestIdempotencyGuard_FailureReleasesKey(t *testing.T) {
	startMiniRedis(t)
	guard := testGuard()
	ctx := context.Background()

	boom := errors.New("boom")
	_, _, err := guard.Do(ctx, "key-3", func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// A failed attempt does not poison the key; a retry executes fresh
	result, replayed, err := guard.Do(ctx, "key-3", func(ctx context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "ok", string(result))
}

func TestIdempotencyGuard_ConcurrentDuplicateWaitsForWinner(t *testing.T) {
	startMiniRedis(t)
	guard := testGuard()
	ctx := context.Background()

	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	fn := func(ctx context.Context) ([]byte, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return []byte("winner"), nil
	}

	var wg sync.WaitGroup
	results := make([]string, 2)
	replays := make([]bool, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw, replayed, err := guard.Do(ctx, "key-4", fn)
			results[i], replays[i], errs[i] = string(raw), replayed, err
		}(i)
	}

	// Let both goroutines reach the guard, then release the winner
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "winner", results[0])
	assert.Equal(t, "winner", results[1])
	assert.Equal(t, 1, calls, "only the winner executes")

	var replayCount int
	for _, r := range replays {
		if r {
			replayCount++
		}
	}
	assert.Equal(t, 1, replayCount)
}

func TestIdempotencyGuard_WaitBudgetExceeded(t *testing.T) {
	srv := startMiniRedis(t)
	guard := testGuard()

	// Simulate a winner that never finishes
	srv.Set("idempotency:key-5", "processing")

	_, _, err := guard.Do(context.Background(), "key-5", func(ctx context.Context) ([]byte, error) {
		t.Fatal("fn must not run while another request holds the key")
		return nil, nil
	})
	assert.ErrorIs(t, err, domainerrors.ErrConcurrencyConflict,
		"a winner still working is a retryable conflict, not a replayed duplicate")
}

func TestIdempotencyGuard_WinnerFailureSignalsRetry(t *testing.T) {
	srv := startMiniRedis(t)
	guard := testGuard()

	srv.Set("idempotency:key-6", "processing")

	// Drop the key mid-wait, as the winner's failure path does
	go func() {
		time.Sleep(30 * time.Millisecond)
		srv.Del("idempotency:key-6")
	}()

	_, _, err := guard.Do(context.Background(), "key-6", func(ctx context.Context) ([]byte, error) {
		t.Fatal("fn must not run, the caller should retry instead")
		return nil, nil
	})
	assert.ErrorIs(t, err, domainerrors.ErrConcurrencyConflict)
}
