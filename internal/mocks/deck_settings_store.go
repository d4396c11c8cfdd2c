package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

type settingsKey struct {
	userID uuid.UUID
	deckID int64
}

// MockDeckSettingsStore implements store.DeckSettingsStore in memory.
type MockDeckSettingsStore struct {
	UpsertFn func(ctx context.Context, settings *domain.DeckSettings) error
	Err      error

	mu       sync.Mutex
	settings map[settingsKey]domain.DeckSettings
}

var _ store.DeckSettingsStore = (*MockDeckSettingsStore)(nil)

// NewMockDeckSettingsStore creates an empty settings store.
func NewMockDeckSettingsStore() *MockDeckSettingsStore {
	return &MockDeckSettingsStore{settings: make(map[settingsKey]domain.DeckSettings)}
}

// Get implements store.DeckSettingsStore.
func (m *MockDeckSettingsStore) Get(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[settingsKey{userID, deckID}]
	if !ok {
		return nil, store.ErrDeckSettingsNotFound
	}
	return &s, nil
}

// Upsert implements store.DeckSettingsStore.
func (m *MockDeckSettingsStore) Upsert(ctx context.Context, settings *domain.DeckSettings) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, settings)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = make(map[settingsKey]domain.DeckSettings)
	}
	settings.UpdatedAt = time.Now().UTC()
	m.settings[settingsKey{settings.UserID, settings.DeckID}] = *settings
	return nil
}

// ListDeckIDs implements store.DeckSettingsStore.
func (m *MockDeckSettingsStore) ListDeckIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for k := range m.settings {
		if k.userID == userID {
			ids = append(ids, k.deckID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// WithTx returns the same store.
func (m *MockDeckSettingsStore) WithTx(tx *sql.Tx) store.DeckSettingsStore {
	return m
}
