package deck

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// defaultFanOut bounds concurrent per-deck counter queries in ListDeckCounters.
const defaultFanOut = 4

// Config carries the clock and fan-out settings for the deck service.
type Config struct {
	// Location decides which calendar day "today" is. Nil means UTC.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// FanOut bounds concurrent deck queries; zero uses a small default.
	FanOut int
}

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	records  store.ReviewRecordStore
	ledger   store.ActivityLedgerStore
	settings store.DeckSettingsStore
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a deck Service.
func NewService(
	records store.ReviewRecordStore,
	ledger store.ActivityLedgerStore,
	settings store.DeckSettingsStore,
	cfg Config,
	logger *slog.Logger,
) Service {
	if records == nil || ledger == nil || settings == nil {
		// ALLOW-PANIC: constructor misuse
		panic("deck service stores cannot be nil")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.FanOut <= 0 {
		cfg.FanOut = defaultFanOut
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		records:  records,
		ledger:   ledger,
		settings: settings,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "deck_service")),
	}
}

func (s *serviceImpl) today() time.Time {
	return domain.Today(s.cfg.Now(), s.cfg.Location)
}

// GetDeckCounters implements Service.GetDeckCounters.
func (s *serviceImpl) GetDeckCounters(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
) (*domain.DeckCounters, error) {
	if deckID <= 0 {
		return nil, domain.ErrInvalidDeckID
	}
	counters, err := s.countersFor(ctx, userID, deckID, s.today())
	if err != nil {
		return nil, &ServiceError{Operation: "get_deck_counters", Message: "failed to compute counters", Err: err}
	}
	return counters, nil
}

func (s *serviceImpl) countersFor(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	today time.Time,
) (*domain.DeckCounters, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	due, err := s.records.CountDue(ctx, userID, deckID, today)
	if err != nil {
		return nil, err
	}

	totalNew, err := s.records.CountNew(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	introduced := 0
	entry, err := s.ledger.Get(ctx, userID, deckID, today)
	switch {
	case err == nil:
		introduced = entry.NewFlashcardsCount
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	settings, found, err := s.findSettings(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if !found && due == 0 && totalNew == 0 {
		if err := s.ensureDeckExists(ctx, userID, deckID); err != nil {
			return nil, err
		}
	}

	counters := srs.ComputeDeckCounters(srs.CounterInput{
		DeckID:             deckID,
		DueCount:           due,
		TotalNewCount:      totalNew,
		NewIntroducedToday: introduced,
		FlashcardsPerDay:   settings.FlashcardsPerDay,
	})

	log.Debug("deck counters computed",
		slog.Int64("deck_id", deckID),
		slog.Int("review_count", counters.ReviewCount),
		slog.Int("remaining_new", counters.RemainingNewCount))
	return &counters, nil
}

// ListDeckCounters implements Service.ListDeckCounters.
func (s *serviceImpl) ListDeckCounters(ctx context.Context, userID uuid.UUID) ([]*domain.DeckCounters, error) {
	recordDecks, err := s.records.ListDeckIDs(ctx, userID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_deck_counters", Message: "failed to list decks", Err: err}
	}
	settingsDecks, err := s.settings.ListDeckIDs(ctx, userID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_deck_counters", Message: "failed to list decks", Err: err}
	}

	deckIDs := append(slices.Clone(recordDecks), settingsDecks...)
	slices.Sort(deckIDs)
	deckIDs = slices.Compact(deckIDs)

	today := s.today()
	results := make([]*domain.DeckCounters, len(deckIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanOut)
	for i, deckID := range deckIDs {
		g.Go(func() error {
			counters, err := s.countersFor(gctx, userID, deckID, today)
			if err != nil {
				return err
			}
			results[i] = counters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &ServiceError{Operation: "list_deck_counters", Message: "failed to compute counters", Err: err}
	}

	return results, nil
}

// GetSettings implements Service.GetSettings.
func (s *serviceImpl) GetSettings(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error) {
	if deckID <= 0 {
		return nil, domain.ErrInvalidDeckID
	}
	settings, err := s.loadSettings(ctx, userID, deckID)
	if err != nil {
		return nil, &ServiceError{Operation: "get_settings", Message: "failed to load settings", Err: err}
	}
	return settings, nil
}

func (s *serviceImpl) loadSettings(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error) {
	settings, _, err := s.findSettings(ctx, userID, deckID)
	return settings, err
}

// findSettings returns the saved settings, or the defaults with found false
// when the learner never saved any.
func (s *serviceImpl) findSettings(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
) (*domain.DeckSettings, bool, error) {
	settings, err := s.settings.Get(ctx, userID, deckID)
	switch {
	case err == nil:
		return settings, true, nil
	case errors.Is(err, store.ErrNotFound):
		return domain.DefaultDeckSettings(userID, deckID), false, nil
	default:
		return nil, false, err
	}
}

// ensureDeckExists returns store.ErrDeckNotFound unless the learner holds at
// least one review record in the deck. Scheduled cards that are not due yet
// count as holdings.
func (s *serviceImpl) ensureDeckExists(ctx context.Context, userID uuid.UUID, deckID int64) error {
	deckIDs, err := s.records.ListDeckIDs(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(deckIDs, deckID) {
		return store.ErrDeckNotFound
	}
	return nil
}

// SaveSettings implements Service.SaveSettings.
func (s *serviceImpl) SaveSettings(ctx context.Context, settings *domain.DeckSettings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("rejected deck settings",
			slog.Int64("deck_id", settings.DeckID),
			slog.String("error", err.Error()))
		return errors.Join(ErrInvalidSettings, err)
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return &ServiceError{Operation: "save_settings", Message: "failed to save settings", Err: err}
	}
	return nil
}
