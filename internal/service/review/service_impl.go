package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

const (
	defaultCandidateBatch = 10

	// maxCandidateRounds bounds how many times a candidate list is re-fetched
	// when every candidate on a page turned out stale.
	maxCandidateRounds = 3
)

// CounterSource provides the deck counters that seed a study session.
type CounterSource interface {
	GetDeckCounters(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckCounters, error)
}

// Config carries the clock and retry settings for the review service.
type Config struct {
	// Location decides which calendar day "today" is. Nil means UTC.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// MaxConflictRetries is how many times a conflicting grade is retried.
	MaxConflictRetries int
	// CandidateBatch is the page size for candidate queries.
	CandidateBatch int
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	records    store.ReviewRecordStore
	ledger     store.ActivityLedgerStore
	transactor store.Transactor
	counters   CounterSource
	srsService srs.Service
	cfg        Config
	logger     *slog.Logger
}

// NewService creates a new review Service.
func NewService(
	records store.ReviewRecordStore,
	ledger store.ActivityLedgerStore,
	transactor store.Transactor,
	counters CounterSource,
	srsService srs.Service,
	cfg Config,
	logger *slog.Logger,
) Service {
	if records == nil {
		panic("records cannot be nil")
	}
	if ledger == nil {
		panic("ledger cannot be nil")
	}
	if transactor == nil {
		panic("transactor cannot be nil")
	}
	if counters == nil {
		panic("counters cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CandidateBatch <= 0 {
		cfg.CandidateBatch = defaultCandidateBatch
	}
	if cfg.MaxConflictRetries < 0 {
		cfg.MaxConflictRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		records:    records,
		ledger:     ledger,
		transactor: transactor,
		counters:   counters,
		srsService: srsService,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "review_service")),
	}
}

func (s *serviceImpl) today() time.Time {
	return domain.Today(s.cfg.Now(), s.cfg.Location)
}

// SubmitGrade implements Service.SubmitGrade.
func (s *serviceImpl) SubmitGrade(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
	grade domain.Grade,
) (*domain.ReviewRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.Int64("flashcard_id", flashcardID))

	if !grade.Valid() {
		log.Warn("invalid grade", slog.String("grade", string(grade)))
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGrade, grade)
	}

	today := s.today()

	var err error
	for attempt := 0; attempt <= s.cfg.MaxConflictRetries; attempt++ {
		var updated *domain.ReviewRecord
		updated, err = s.submitOnce(ctx, userID, flashcardID, grade, today)
		if err == nil {
			log.Debug("grade applied",
				slog.String("grade", string(grade)),
				slog.Int("attempt", attempt+1),
				slog.Time("next_review_date", updated.NextReviewDate))
			return updated, nil
		}
		if !store.IsConflictError(err) {
			break
		}
		log.Warn("grade conflicted with a concurrent update, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}

	switch {
	case errors.Is(err, ErrRecordNotFound):
		return nil, err
	case store.IsConflictError(err):
		log.Error("grade retries exhausted", slog.Int("retries", s.cfg.MaxConflictRetries))
		return nil, NewSubmitGradeError("retries exhausted", fmt.Errorf("%w: %w", ErrConflict, err))
	default:
		log.Error("failed to submit grade", slog.String("error", err.Error()))
		return nil, NewSubmitGradeError("failed to submit grade", err)
	}
}

// submitOnce runs one read-compute-write attempt in its own transaction.
func (s *serviceImpl) submitOnce(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
	grade domain.Grade,
	today time.Time,
) (*domain.ReviewRecord, error) {
	var updated *domain.ReviewRecord

	err := s.transactor.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		records := s.records.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		current, err := records.GetForUpdate(ctx, userID, flashcardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrRecordNotFound
			}
			return fmt.Errorf("failed to lock review record: %w", err)
		}

		// Captured before the update; only the first grade counts toward the daily budget.
		firstReview := current.IsNew()

		next, err := s.srsService.SubmitGrade(current, grade, today)
		if err != nil {
			return fmt.Errorf("failed to schedule review: %w", err)
		}

		if err := records.Update(ctx, next); err != nil {
			if store.IsNotFoundError(err) {
				return ErrRecordNotFound
			}
			return err
		}

		if firstReview {
			if _, err := ledger.IncrementOrCreate(ctx, userID, next.DeckID, today); err != nil {
				return fmt.Errorf("failed to record new flashcard activity: %w", err)
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PickNextCard implements Service.PickNextCard.
func (s *serviceImpl) PickNextCard(ctx context.Context, session *Session) (*NextCard, error) {
	if session == nil || session.UserID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}
	if session.DeckID <= 0 {
		return nil, domain.ErrInvalidDeckID
	}

	counters, err := s.counters.GetDeckCounters(ctx, session.UserID, session.DeckID)
	if err != nil {
		return nil, err
	}
	if session.RemainingNew > counters.RemainingNewCount {
		logger.FromContextOrDefault(ctx, s.logger).Debug("lowering session new-card budget",
			slog.Int64("deck_id", session.DeckID),
			slog.Int("requested", session.RemainingNew),
			slog.Int("remaining_new", counters.RemainingNewCount))
		session.RemainingNew = counters.RemainingNewCount
	}
	return s.pickNext(ctx, session)
}

// pickNext serves from session whose budget is already within the deck's.
func (s *serviceImpl) pickNext(ctx context.Context, session *Session) (*NextCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", session.UserID.String()),
		slog.Int64("deck_id", session.DeckID))
	today := s.today()

	if session.RemainingNew > 0 {
		record, err := s.firstValid(ctx,
			func(ctx context.Context) ([]*domain.ReviewRecord, error) {
				return s.records.ListNew(ctx, session.UserID, session.DeckID, s.cfg.CandidateBatch)
			},
			func(r *domain.ReviewRecord) bool {
				return r.DeckID == session.DeckID && r.IsNew()
			})
		if err != nil {
			return nil, NewPickNextCardError("failed to load new cards", err)
		}
		if record != nil {
			session.RemainingNew--
			log.Debug("serving new card",
				slog.Int64("flashcard_id", record.FlashcardID),
				slog.Int("remaining_new", session.RemainingNew))
			return &NextCard{Record: record, IsNew: true, RemainingNew: session.RemainingNew}, nil
		}
	}

	record, err := s.firstValid(ctx,
		func(ctx context.Context) ([]*domain.ReviewRecord, error) {
			return s.records.ListDue(ctx, session.UserID, session.DeckID, today, s.cfg.CandidateBatch)
		},
		func(r *domain.ReviewRecord) bool {
			return r.DeckID == session.DeckID && r.IsDue(today)
		})
	if err != nil {
		return nil, NewPickNextCardError("failed to load due cards", err)
	}
	if record == nil {
		log.Debug("no cards left for today")
		return &NextCard{RemainingNew: session.RemainingNew}, nil
	}

	log.Debug("serving due card", slog.Int64("flashcard_id", record.FlashcardID))
	return &NextCard{Record: record, RemainingNew: session.RemainingNew}, nil
}

// firstValid returns the first listed candidate that still satisfies valid
// after being re-read, or nil when none does.
func (s *serviceImpl) firstValid(
	ctx context.Context,
	list func(ctx context.Context) ([]*domain.ReviewRecord, error),
	valid func(*domain.ReviewRecord) bool,
) (*domain.ReviewRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for round := range maxCandidateRounds {
		candidates, err := list(ctx)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			current, err := s.records.Get(ctx, candidate.UserID, candidate.FlashcardID)
			if err != nil {
				if store.IsNotFoundError(err) {
					continue
				}
				return nil, err
			}
			if valid(current) {
				return current, nil
			}
			log.Debug("skipping stale candidate",
				slog.Int64("flashcard_id", candidate.FlashcardID),
				slog.Int("round", round+1))
		}

		if len(candidates) < s.cfg.CandidateBatch {
			return nil, nil
		}
	}
	return nil, nil
}

// GetNextCard implements Service.GetNextCard.
func (s *serviceImpl) GetNextCard(ctx context.Context, userID uuid.UUID, deckID int64) (*NextCard, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}
	if deckID <= 0 {
		return nil, domain.ErrInvalidDeckID
	}

	counters, err := s.counters.GetDeckCounters(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	return s.pickNext(ctx, &Session{
		UserID:       userID,
		DeckID:       deckID,
		RemainingNew: counters.RemainingNewCount,
	})
}

// EnrollCard implements Service.EnrollCard.
func (s *serviceImpl) EnrollCard(
	ctx context.Context,
	userID uuid.UUID,
	deckID, flashcardID int64,
) (*domain.ReviewRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := domain.NewReviewRecord(userID, deckID, flashcardID, s.today())
	if err != nil {
		return nil, err
	}

	if err := s.records.Create(ctx, record); err != nil {
		if store.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		log.Error("failed to enroll flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", flashcardID))
		return nil, &ServiceError{Operation: "enroll_card", Message: "failed to create record", Err: err}
	}
	return record, nil
}

// ResetProgress implements Service.ResetProgress.
func (s *serviceImpl) ResetProgress(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, domain.ErrEmptyUserID
	}
	deleted, err := s.records.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, &ServiceError{Operation: "reset_progress", Message: "failed to delete records", Err: err}
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("learner progress reset",
		slog.String("user_id", userID.String()),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

// ListRecords implements Service.ListRecords.
func (s *serviceImpl) ListRecords(
	ctx context.Context,
	userID uuid.UUID,
	deckID *int64,
) ([]*domain.ReviewRecord, error) {
	if deckID != nil && *deckID <= 0 {
		return nil, domain.ErrInvalidDeckID
	}
	records, err := s.records.ListByUser(ctx, userID, deckID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_records", Message: "failed to list records", Err: err}
	}
	return records, nil
}
