package usecases_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"giftroom.backend/internal/domain/entities"
	domainerrors "giftroom.backend/internal/domain/errors"
	redispkg "giftroom.backend/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })
	return srv
}

// passUnitOfWork runs fn directly; the fake stores below are already atomic
type passUnitOfWork struct{}

func (u *passUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeWalletStore is an in-memory WalletRepository plus
// WalletTransactionRepository with real compare-and-swap semantics, so
// ledger tests can exercise version conflicts and concurrency.
type fakeWalletStore struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*entities.Wallet // keyed by user ID
	entries []*entities.WalletTransaction

	// failNextCAS forces that many ErrConcurrencyConflict results
	failNextCAS int
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: make(map[uuid.UUID]*entities.Wallet)}
}

func (s *fakeWalletStore) seed(userID uuid.UUID, balance int64) *entities.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := &entities.Wallet{ID: uuid.New(), UserID: userID, Balance: balance}
	s.wallets[userID] = w
	return w
}

func (s *fakeWalletStore) balanceOf(userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[userID]; ok {
		return w.Balance
	}
	return 0
}

func (s *fakeWalletStore) diamondsOf(userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[userID]; ok {
		return w.Diamonds
	}
	return 0
}

func (s *fakeWalletStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWalletStore) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		w = &entities.Wallet{ID: uuid.New(), UserID: userID}
		s.wallets[userID] = w
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWalletStore) UpdateBalance(ctx context.Context, walletID uuid.UUID, version, balance, diamonds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextCAS > 0 {
		s.failNextCAS--
		return domainerrors.ErrConcurrencyConflict
	}

	for _, w := range s.wallets {
		if w.ID != walletID {
			continue
		}
		if w.Version != version {
			return domainerrors.ErrConcurrencyConflict
		}
		w.Balance = balance
		w.Diamonds = diamonds
		w.Version++
		return nil
	}
	return domainerrors.ErrNotFound
}

func (s *fakeWalletStore) Create(ctx context.Context, tx *entities.WalletTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	cp := *tx
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *fakeWalletStore) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*entities.WalletTransaction
	for _, e := range s.entries {
		if e.WalletID == walletID {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *fakeWalletStore) SumAmounts(ctx context.Context, walletID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, e := range s.entries {
		if e.WalletID == walletID {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (s *fakeWalletStore) entriesFor(walletID uuid.UUID) []*entities.WalletTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*entities.WalletTransaction
	for _, e := range s.entries {
		if e.WalletID == walletID {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	return matched
}

// capturePublisher records published events for assertions
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Type      entities.EventType
	SubjectID uuid.UUID
	Payload   map[string]interface{}
}

func (p *capturePublisher) Publish(ctx context.Context, eventType entities.EventType, subjectID uuid.UUID, payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Type: eventType, SubjectID: subjectID, Payload: payload})
}

func (p *capturePublisher) captured() []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]capturedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Mock GiftRepository
type MockGiftRepository struct {
	mock.Mock
}

func (m *MockGiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Gift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Gift), args.Error(1)
}

func (m *MockGiftRepository) ListActive(ctx context.Context) ([]*entities.Gift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Gift), args.Error(1)
}

// Mock GiftSendRepository
type MockGiftSendRepository struct {
	mock.Mock
}

func (m *MockGiftSendRepository) Create(ctx context.Context, send *entities.GiftSend) error {
	args := m.Called(ctx, send)
	if args.Error(0) == nil && send.ID == uuid.Nil {
		send.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockGiftSendRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.GiftSend, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GiftSend), args.Error(1)
}

func (m *MockGiftSendRepository) HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Room), args.Error(1)
}

func (m *MockRoomRepository) ReleaseExpiredBans(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoomRepository) ReleaseExpiredMutes(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock GrantRepository
type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) (*entities.Grant, error) {
	args := m.Called(ctx, userID, grantType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Grant), args.Error(1)
}

func (m *MockGrantRepository) Create(ctx context.Context, grant *entities.Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockGrantRepository) Upsert(ctx context.Context, grant *entities.Grant) error {
	args := m.Called(ctx, grant)
	if args.Error(0) == nil && grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockGrantRepository) Delete(ctx context.Context, userID uuid.UUID, grantType entities.GrantType) error {
	args := m.Called(ctx, userID, grantType)
	return args.Error(0)
}

func (m *MockGrantRepository) ExpireDue(ctx context.Context, now time.Time) ([]*entities.Grant, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Grant), args.Error(1)
}

// Mock AdminActionRepository
type MockAdminActionRepository struct {
	mock.Mock
}

func (m *MockAdminActionRepository) Create(ctx context.Context, action *entities.AdminAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}
