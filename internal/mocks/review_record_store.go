package mocks

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

type recordKey struct {
	userID      uuid.UUID
	flashcardID int64
}

// MockReviewRecordStore implements store.ReviewRecordStore in memory.
// Any Fn field that is set replaces the in-memory behavior for that method.
type MockReviewRecordStore struct {
	CreateFn       func(ctx context.Context, record *domain.ReviewRecord) error
	GetFn          func(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.ReviewRecord, error)
	GetForUpdateFn func(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.ReviewRecord, error)
	UpdateFn       func(ctx context.Context, record *domain.ReviewRecord) error
	ListNewFn      func(ctx context.Context, userID uuid.UUID, deckID int64, limit int) ([]*domain.ReviewRecord, error)
	ListDueFn      func(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time, limit int) ([]*domain.ReviewRecord, error)
	CountNewFn     func(ctx context.Context, userID uuid.UUID, deckID int64) (int, error)
	CountDueFn     func(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time) (int, error)

	// Err, when set, is returned by every method without a Fn override.
	Err error

	mu      sync.Mutex
	records map[recordKey]*domain.ReviewRecord
	nextID  int64

	UpdateCalls int
}

var _ store.ReviewRecordStore = (*MockReviewRecordStore)(nil)

// NewMockReviewRecordStore creates an empty in-memory store.
func NewMockReviewRecordStore() *MockReviewRecordStore {
	return &MockReviewRecordStore{records: make(map[recordKey]*domain.ReviewRecord)}
}

// Seed stores copies of records as-is, assigning IDs and versions where missing.
func (m *MockReviewRecordStore) Seed(records ...*domain.ReviewRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.insertLocked(r)
	}
}

// Record returns a copy of the stored record, or nil.
func (m *MockReviewRecordStore) Record(userID uuid.UUID, flashcardID int64) *domain.ReviewRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[recordKey{userID, flashcardID}]; ok {
		return r.Clone()
	}
	return nil
}

func (m *MockReviewRecordStore) insertLocked(r *domain.ReviewRecord) {
	if m.records == nil {
		m.records = make(map[recordKey]*domain.ReviewRecord)
	}
	if r.ID == 0 {
		m.nextID++
		r.ID = m.nextID
	} else if r.ID > m.nextID {
		m.nextID = r.ID
	}
	if r.Version == 0 {
		r.Version = 1
	}
	m.records[recordKey{r.UserID, r.FlashcardID}] = r.Clone()
}

// Create implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) Create(ctx context.Context, record *domain.ReviewRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, record)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := record.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[recordKey{record.UserID, record.FlashcardID}]; exists {
		return store.ErrReviewRecordExists
	}
	record.ID = 0
	record.Version = 0
	m.insertLocked(record)
	return nil
}

// Get implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) Get(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.ReviewRecord, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, flashcardID)
	}
	return m.get(userID, flashcardID)
}

// GetForUpdate implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
) (*domain.ReviewRecord, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, userID, flashcardID)
	}
	return m.get(userID, flashcardID)
}

func (m *MockReviewRecordStore) get(userID uuid.UUID, flashcardID int64) (*domain.ReviewRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if r := m.Record(userID, flashcardID); r != nil {
		return r, nil
	}
	return nil, store.ErrReviewRecordNotFound
}

// Update implements store.ReviewRecordStore with the same version check as the SQL store.
func (m *MockReviewRecordStore) Update(ctx context.Context, record *domain.ReviewRecord) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, record)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.records[recordKey{record.UserID, record.FlashcardID}]
	if !ok {
		return store.ErrReviewRecordNotFound
	}
	if stored.Version != record.Version {
		return store.NewStoreError("review_record", "update", "version is stale", store.ErrConflict)
	}
	record.Version++
	record.UpdatedAt = time.Now().UTC()
	m.records[recordKey{record.UserID, record.FlashcardID}] = record.Clone()
	return nil
}

func (m *MockReviewRecordStore) filter(keep func(*domain.ReviewRecord) bool) []*domain.ReviewRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReviewRecord
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// ListNew implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) ListNew(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	limit int,
) ([]*domain.ReviewRecord, error) {
	if m.ListNewFn != nil {
		return m.ListNewFn(ctx, userID, deckID, limit)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := m.filter(func(r *domain.ReviewRecord) bool {
		return r.UserID == userID && r.DeckID == deckID && r.IsNew()
	})
	slices.SortFunc(out, func(a, b *domain.ReviewRecord) int { return cmp.Compare(a.ID, b.ID) })
	return truncate(out, limit), nil
}

// ListDue implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
	limit int,
) ([]*domain.ReviewRecord, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID, deckID, date, limit)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := m.filter(func(r *domain.ReviewRecord) bool {
		return r.UserID == userID && r.DeckID == deckID && r.IsDue(date)
	})
	slices.SortFunc(out, func(a, b *domain.ReviewRecord) int {
		if c := a.NextReviewDate.Compare(b.NextReviewDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return truncate(out, limit), nil
}

// CountNew implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) CountNew(ctx context.Context, userID uuid.UUID, deckID int64) (int, error) {
	if m.CountNewFn != nil {
		return m.CountNewFn(ctx, userID, deckID)
	}
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.filter(func(r *domain.ReviewRecord) bool {
		return r.UserID == userID && r.DeckID == deckID && r.TimesReviewed == 0
	})), nil
}

// CountDue implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) CountDue(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time) (int, error) {
	if m.CountDueFn != nil {
		return m.CountDueFn(ctx, userID, deckID, date)
	}
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.filter(func(r *domain.ReviewRecord) bool {
		return r.UserID == userID && r.DeckID == deckID && r.TimesReviewed > 0 &&
			!r.NextReviewDate.After(date)
	})), nil
}

// ListByUser implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	deckID *int64,
) ([]*domain.ReviewRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := m.filter(func(r *domain.ReviewRecord) bool {
		return r.UserID == userID && (deckID == nil || r.DeckID == *deckID)
	})
	slices.SortFunc(out, func(a, b *domain.ReviewRecord) int { return cmp.Compare(a.FlashcardID, b.FlashcardID) })
	return out, nil
}

// ListDeckIDs implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) ListDeckIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var ids []int64
	for _, r := range m.filter(func(r *domain.ReviewRecord) bool { return r.UserID == userID }) {
		ids = append(ids, r.DeckID)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// DeleteAllForUser implements store.ReviewRecordStore.
func (m *MockReviewRecordStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.records {
		if k.userID == userID {
			delete(m.records, k)
			n++
		}
	}
	return n, nil
}

// WithTx returns the same store; transactions are not simulated.
func (m *MockReviewRecordStore) WithTx(tx *sql.Tx) store.ReviewRecordStore {
	return m
}

func truncate(records []*domain.ReviewRecord, limit int) []*domain.ReviewRecord {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
