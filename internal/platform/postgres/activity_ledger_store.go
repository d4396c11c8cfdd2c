package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresActivityLedgerStore implements store.ActivityLedgerStore on the
// daily_activity table.
type PostgresActivityLedgerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityLedgerStore creates a ledger store on db.
func NewPostgresActivityLedgerStore(db store.DBTX, logger *slog.Logger) *PostgresActivityLedgerStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresActivityLedgerStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_ledger_store")),
	}
}

var _ store.ActivityLedgerStore = (*PostgresActivityLedgerStore)(nil)

// Get implements store.ActivityLedgerStore.Get.
func (s *PostgresActivityLedgerStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
) (*domain.DailyActivityEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, deck_id, activity_date, new_flashcards_count
		FROM daily_activity
		WHERE user_id = $1 AND deck_id = $2 AND activity_date = $3
	`

	entry, err := scanActivityEntry(s.db.QueryRowContext(ctx, query, userID, deckID, domain.DateOf(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrActivityEntryNotFound
		}
		log.Error("failed to read activity entry",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID),
			slog.String("date", domain.FormatDate(date)))
		return nil, MapError(err)
	}
	return entry, nil
}

// IncrementOrCreate implements store.ActivityLedgerStore.IncrementOrCreate
// with a single upsert, so concurrent first grades on the same day cannot
// lose an increment.
func (s *PostgresActivityLedgerStore) IncrementOrCreate(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
) (*domain.DailyActivityEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO daily_activity (user_id, deck_id, activity_date, new_flashcards_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, deck_id, activity_date)
		DO UPDATE SET
			new_flashcards_count = daily_activity.new_flashcards_count + 1,
			updated_at = NOW()
		RETURNING user_id, deck_id, activity_date, new_flashcards_count
	`

	entry, err := scanActivityEntry(s.db.QueryRowContext(ctx, query, userID, deckID, domain.DateOf(date)))
	if err != nil {
		log.Error("failed to increment activity entry",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID),
			slog.String("date", domain.FormatDate(date)))
		return nil, MapError(err)
	}

	log.Debug("activity entry incremented",
		slog.Int64("deck_id", deckID),
		slog.String("date", domain.FormatDate(entry.Date)),
		slog.Int("new_flashcards_count", entry.NewFlashcardsCount))
	return entry, nil
}

// WithTx implements store.ActivityLedgerStore.WithTx.
func (s *PostgresActivityLedgerStore) WithTx(tx *sql.Tx) store.ActivityLedgerStore {
	return &PostgresActivityLedgerStore{db: tx, logger: s.logger}
}

func scanActivityEntry(row rowScanner) (*domain.DailyActivityEntry, error) {
	var e domain.DailyActivityEntry
	if err := row.Scan(&e.UserID, &e.DeckID, &e.Date, &e.NewFlashcardsCount); err != nil {
		return nil, err
	}
	e.Date = domain.DateOf(e.Date)
	return &e, nil
}
