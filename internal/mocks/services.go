package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service/deck"
	"github.com/phrazzld/lingo-api/internal/service/quiz"
	"github.com/phrazzld/lingo-api/internal/service/review"
)

// MockReviewService implements review.Service for handler tests
type MockReviewService struct {
	SubmitGradeFn   func(ctx context.Context, userID uuid.UUID, flashcardID int64, grade domain.Grade) (*domain.ReviewRecord, error)
	PickNextCardFn  func(ctx context.Context, session *review.Session) (*review.NextCard, error)
	GetNextCardFn   func(ctx context.Context, userID uuid.UUID, deckID int64) (*review.NextCard, error)
	EnrollCardFn    func(ctx context.Context, userID uuid.UUID, deckID, flashcardID int64) (*domain.ReviewRecord, error)
	ResetProgressFn func(ctx context.Context, userID uuid.UUID) (int64, error)
	ListRecordsFn   func(ctx context.Context, userID uuid.UUID, deckID *int64) ([]*domain.ReviewRecord, error)

	// Err is returned by methods without a Fn override.
	Err error
}

var _ review.Service = (*MockReviewService)(nil)

// SubmitGrade implements review.Service
func (m *MockReviewService) SubmitGrade(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
	grade domain.Grade,
) (*domain.ReviewRecord, error) {
	if m.SubmitGradeFn != nil {
		return m.SubmitGradeFn(ctx, userID, flashcardID, grade)
	}
	return nil, m.Err
}

// PickNextCard implements review.Service
func (m *MockReviewService) PickNextCard(ctx context.Context, session *review.Session) (*review.NextCard, error) {
	if m.PickNextCardFn != nil {
		return m.PickNextCardFn(ctx, session)
	}
	return &review.NextCard{}, m.Err
}

// GetNextCard implements review.Service
func (m *MockReviewService) GetNextCard(ctx context.Context, userID uuid.UUID, deckID int64) (*review.NextCard, error) {
	if m.GetNextCardFn != nil {
		return m.GetNextCardFn(ctx, userID, deckID)
	}
	return &review.NextCard{}, m.Err
}

// EnrollCard implements review.Service
func (m *MockReviewService) EnrollCard(
	ctx context.Context,
	userID uuid.UUID,
	deckID, flashcardID int64,
) (*domain.ReviewRecord, error) {
	if m.EnrollCardFn != nil {
		return m.EnrollCardFn(ctx, userID, deckID, flashcardID)
	}
	return nil, m.Err
}

// ResetProgress implements review.Service
func (m *MockReviewService) ResetProgress(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.ResetProgressFn != nil {
		return m.ResetProgressFn(ctx, userID)
	}
	return 0, m.Err
}

// ListRecords implements review.Service
func (m *MockReviewService) ListRecords(
	ctx context.Context,
	userID uuid.UUID,
	deckID *int64,
) ([]*domain.ReviewRecord, error) {
	if m.ListRecordsFn != nil {
		return m.ListRecordsFn(ctx, userID, deckID)
	}
	return nil, m.Err
}

// MockDeckService implements deck.Service for handler tests
type MockDeckService struct {
	GetDeckCountersFn  func(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckCounters, error)
	ListDeckCountersFn func(ctx context.Context, userID uuid.UUID) ([]*domain.DeckCounters, error)
	GetSettingsFn      func(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error)
	SaveSettingsFn     func(ctx context.Context, settings *domain.DeckSettings) error

	Err error
}

var _ deck.Service = (*MockDeckService)(nil)

// GetDeckCounters implements deck.Service
func (m *MockDeckService) GetDeckCounters(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckCounters, error) {
	if m.GetDeckCountersFn != nil {
		return m.GetDeckCountersFn(ctx, userID, deckID)
	}
	return nil, m.Err
}

// ListDeckCounters implements deck.Service
func (m *MockDeckService) ListDeckCounters(ctx context.Context, userID uuid.UUID) ([]*domain.DeckCounters, error) {
	if m.ListDeckCountersFn != nil {
		return m.ListDeckCountersFn(ctx, userID)
	}
	return nil, m.Err
}

// GetSettings implements deck.Service
func (m *MockDeckService) GetSettings(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error) {
	if m.GetSettingsFn != nil {
		return m.GetSettingsFn(ctx, userID, deckID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return domain.DefaultDeckSettings(userID, deckID), nil
}

// SaveSettings implements deck.Service
func (m *MockDeckService) SaveSettings(ctx context.Context, settings *domain.DeckSettings) error {
	if m.SaveSettingsFn != nil {
		return m.SaveSettingsFn(ctx, settings)
	}
	return m.Err
}

// MockQuizService implements quiz.Service for handler tests
type MockQuizService struct {
	BuildQuizOptionsFn func(ctx context.Context, term, language string, count int) (*quiz.Options, error)

	Err         error
	Invalidated []string
}

var _ quiz.Service = (*MockQuizService)(nil)

// BuildQuizOptions implements quiz.Service
func (m *MockQuizService) BuildQuizOptions(ctx context.Context, term, language string, count int) (*quiz.Options, error) {
	if m.BuildQuizOptionsFn != nil {
		return m.BuildQuizOptionsFn(ctx, term, language, count)
	}
	return nil, m.Err
}

// Invalidate implements quiz.Service
func (m *MockQuizService) Invalidate(language string) {
	m.Invalidated = append(m.Invalidated, language)
}
