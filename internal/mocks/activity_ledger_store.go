package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

type ledgerKey struct {
	userID uuid.UUID
	deckID int64
	date   time.Time
}

// MockActivityLedgerStore implements store.ActivityLedgerStore in memory.
type MockActivityLedgerStore struct {
	GetFn               func(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time) (*domain.DailyActivityEntry, error)
	IncrementOrCreateFn func(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time) (*domain.DailyActivityEntry, error)

	mu      sync.Mutex
	entries map[ledgerKey]int

	IncrementCalls int
}

var _ store.ActivityLedgerStore = (*MockActivityLedgerStore)(nil)

// NewMockActivityLedgerStore creates an empty ledger.
func NewMockActivityLedgerStore() *MockActivityLedgerStore {
	return &MockActivityLedgerStore{entries: make(map[ledgerKey]int)}
}

// Set stores a count for (userID, deckID, date).
func (m *MockActivityLedgerStore) Set(userID uuid.UUID, deckID int64, date time.Time, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[ledgerKey]int)
	}
	m.entries[ledgerKey{userID, deckID, domain.DateOf(date)}] = count
}

// Count returns the stored count, 0 when absent.
func (m *MockActivityLedgerStore) Count(userID uuid.UUID, deckID int64, date time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[ledgerKey{userID, deckID, domain.DateOf(date)}]
}

// Get implements store.ActivityLedgerStore.
func (m *MockActivityLedgerStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
) (*domain.DailyActivityEntry, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, deckID, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count, ok := m.entries[ledgerKey{userID, deckID, domain.DateOf(date)}]
	if !ok {
		return nil, store.ErrActivityEntryNotFound
	}
	return &domain.DailyActivityEntry{UserID: userID, DeckID: deckID, Date: domain.DateOf(date), NewFlashcardsCount: count}, nil
}

// IncrementOrCreate implements store.ActivityLedgerStore.
func (m *MockActivityLedgerStore) IncrementOrCreate(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
) (*domain.DailyActivityEntry, error) {
	m.mu.Lock()
	m.IncrementCalls++
	m.mu.Unlock()

	if m.IncrementOrCreateFn != nil {
		return m.IncrementOrCreateFn(ctx, userID, deckID, date)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[ledgerKey]int)
	}
	key := ledgerKey{userID, deckID, domain.DateOf(date)}
	m.entries[key]++
	return &domain.DailyActivityEntry{UserID: userID, DeckID: deckID, Date: key.date, NewFlashcardsCount: m.entries[key]}, nil
}

// WithTx returns the same store.
func (m *MockActivityLedgerStore) WithTx(tx *sql.Tx) store.ActivityLedgerStore {
	return m
}
