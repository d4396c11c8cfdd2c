package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

const reviewRecordColumns = `
	id, user_id, flashcard_id, deck_id, state, interval_days,
	times_reviewed, times_recalled_successfully, average_difficulty,
	last_review_date, next_review_date, version, created_at, updated_at`

// PostgresReviewRecordStore implements store.ReviewRecordStore.
type PostgresReviewRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewRecordStore creates a review record store on db.
// If logger is nil, the default logger is used.
func NewPostgresReviewRecordStore(db store.DBTX, logger *slog.Logger) *PostgresReviewRecordStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_record_store")),
	}
}

var _ store.ReviewRecordStore = (*PostgresReviewRecordStore)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewRecord(row rowScanner) (*domain.ReviewRecord, error) {
	var (
		r     domain.ReviewRecord
		state string
		last  sql.NullTime
		next  time.Time
	)

	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.FlashcardID,
		&r.DeckID,
		&state,
		&r.IntervalDays,
		&r.TimesReviewed,
		&r.TimesRecalledSuccessfully,
		&r.AverageDifficulty,
		&last,
		&next,
		&r.Version,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.State = domain.RecordState(state)
	r.NextReviewDate = domain.DateOf(next)
	if last.Valid {
		d := domain.DateOf(last.Time)
		r.LastReviewDate = &d
	}
	return &r, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: domain.DateOf(*t), Valid: true}
}

// Create implements store.ReviewRecordStore.Create.
func (s *PostgresReviewRecordStore) Create(ctx context.Context, record *domain.ReviewRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("review record validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", record.FlashcardID))
		return err
	}

	query := `
		INSERT INTO review_records (
			user_id, flashcard_id, deck_id, state, interval_days,
			times_reviewed, times_recalled_successfully, average_difficulty,
			last_review_date, next_review_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, version, created_at, updated_at
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		record.UserID,
		record.FlashcardID,
		record.DeckID,
		string(record.State),
		record.IntervalDays,
		record.TimesReviewed,
		record.TimesRecalledSuccessfully,
		record.AverageDifficulty,
		nullDate(record.LastReviewDate),
		domain.DateOf(record.NextReviewDate),
	).Scan(&record.ID, &record.Version, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("flashcard already enrolled",
				slog.String("user_id", record.UserID.String()),
				slog.Int64("flashcard_id", record.FlashcardID))
			return store.ErrReviewRecordExists
		}
		log.Error("failed to create review record",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.Int64("flashcard_id", record.FlashcardID))
		return MapError(err)
	}

	log.Info("review record created",
		slog.Int64("record_id", record.ID),
		slog.Int64("deck_id", record.DeckID),
		slog.Int64("flashcard_id", record.FlashcardID))
	return nil
}

// Get implements store.ReviewRecordStore.Get.
func (s *PostgresReviewRecordStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
) (*domain.ReviewRecord, error) {
	query := `SELECT` + reviewRecordColumns + `
		FROM review_records
		WHERE user_id = $1 AND flashcard_id = $2
	`
	return s.getOne(ctx, "get", query, userID, flashcardID)
}

// GetForUpdate implements store.ReviewRecordStore.GetForUpdate.
func (s *PostgresReviewRecordStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID int64,
) (*domain.ReviewRecord, error) {
	query := `SELECT` + reviewRecordColumns + `
		FROM review_records
		WHERE user_id = $1 AND flashcard_id = $2
		FOR UPDATE
	`
	return s.getOne(ctx, "get_for_update", query, userID, flashcardID)
}

func (s *PostgresReviewRecordStore) getOne(
	ctx context.Context,
	op string,
	query string,
	userID uuid.UUID,
	flashcardID int64,
) (*domain.ReviewRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := scanReviewRecord(s.db.QueryRowContext(ctx, query, userID, flashcardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review record not found",
				slog.String("op", op),
				slog.String("user_id", userID.String()),
				slog.Int64("flashcard_id", flashcardID))
			return nil, store.ErrReviewRecordNotFound
		}
		log.Error("failed to read review record",
			slog.String("op", op),
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", flashcardID))
		return nil, MapError(err)
	}
	return record, nil
}

// Update implements store.ReviewRecordStore.Update as a compare-and-swap on version.
func (s *PostgresReviewRecordStore) Update(ctx context.Context, record *domain.ReviewRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("review record validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", record.FlashcardID))
		return err
	}

	query := `
		UPDATE review_records
		SET state = $1,
			interval_days = $2,
			times_reviewed = $3,
			times_recalled_successfully = $4,
			average_difficulty = $5,
			last_review_date = $6,
			next_review_date = $7,
			version = version + 1,
			updated_at = NOW()
		WHERE user_id = $8 AND flashcard_id = $9 AND version = $10
		RETURNING version, updated_at
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		string(record.State),
		record.IntervalDays,
		record.TimesReviewed,
		record.TimesRecalledSuccessfully,
		record.AverageDifficulty,
		nullDate(record.LastReviewDate),
		domain.DateOf(record.NextReviewDate),
		record.UserID,
		record.FlashcardID,
		record.Version,
	).Scan(&record.Version, &record.UpdatedAt)
	if err == nil {
		log.Debug("review record updated",
			slog.Int64("flashcard_id", record.FlashcardID),
			slog.Int("version", record.Version),
			slog.String("next_review_date", domain.FormatDate(record.NextReviewDate)))
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to update review record",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", record.FlashcardID))
		return MapError(err)
	}

	// Nothing matched: either the row is gone or its version moved on.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM review_records WHERE user_id = $1 AND flashcard_id = $2)`
	if err := s.db.QueryRowContext(ctx, existsQuery, record.UserID, record.FlashcardID).Scan(&exists); err != nil {
		return MapError(err)
	}
	if !exists {
		return store.ErrReviewRecordNotFound
	}

	log.Warn("review record version conflict",
		slog.Int64("flashcard_id", record.FlashcardID),
		slog.Int("expected_version", record.Version))
	return store.NewStoreError("review_record", "update",
		fmt.Sprintf("version %d is stale", record.Version), store.ErrConflict)
}

// ListNew implements store.ReviewRecordStore.ListNew.
func (s *PostgresReviewRecordStore) ListNew(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	limit int,
) ([]*domain.ReviewRecord, error) {
	query := `SELECT` + reviewRecordColumns + `
		FROM review_records
		WHERE user_id = $1 AND deck_id = $2 AND state = 'new'
		ORDER BY id
		LIMIT $3
	`
	return s.list(ctx, "list_new", query, userID, deckID, limit)
}

// ListDue implements store.ReviewRecordStore.ListDue.
func (s *PostgresReviewRecordStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
	limit int,
) ([]*domain.ReviewRecord, error) {
	query := `SELECT` + reviewRecordColumns + `
		FROM review_records
		WHERE user_id = $1 AND deck_id = $2 AND state = 'scheduled'
			AND next_review_date <= $3
		ORDER BY next_review_date, id
		LIMIT $4
	`
	return s.list(ctx, "list_due", query, userID, deckID, domain.DateOf(date), limit)
}

// ListByUser implements store.ReviewRecordStore.ListByUser.
func (s *PostgresReviewRecordStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	deckID *int64,
) ([]*domain.ReviewRecord, error) {
	var deck sql.NullInt64
	if deckID != nil {
		deck = sql.NullInt64{Int64: *deckID, Valid: true}
	}

	query := `SELECT` + reviewRecordColumns + `
		FROM review_records
		WHERE user_id = $1 AND ($2::BIGINT IS NULL OR deck_id = $2)
		ORDER BY flashcard_id
	`
	return s.list(ctx, "list_by_user", query, userID, deck)
}

func (s *PostgresReviewRecordStore) list(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]*domain.ReviewRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query review records",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.ReviewRecord{}
	for rows.Next() {
		record, err := scanReviewRecord(rows)
		if err != nil {
			log.Error("failed to scan review record row",
				slog.String("op", op),
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed review records",
		slog.String("op", op),
		slog.Int("count", len(records)))
	return records, nil
}

// CountNew implements store.ReviewRecordStore.CountNew.
func (s *PostgresReviewRecordStore) CountNew(ctx context.Context, userID uuid.UUID, deckID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM review_records
		WHERE user_id = $1 AND deck_id = $2 AND state = 'new'
	`
	return s.count(ctx, "count_new", query, userID, deckID)
}

// CountDue implements store.ReviewRecordStore.CountDue.
func (s *PostgresReviewRecordStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	date time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*) FROM review_records
		WHERE user_id = $1 AND deck_id = $2 AND state = 'scheduled'
			AND next_review_date <= $3
	`
	return s.count(ctx, "count_due", query, userID, deckID, domain.DateOf(date))
}

func (s *PostgresReviewRecordStore) count(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count review records",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

// ListDeckIDs implements store.ReviewRecordStore.ListDeckIDs.
func (s *PostgresReviewRecordStore) ListDeckIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	query := `
		SELECT DISTINCT deck_id FROM review_records
		WHERE user_id = $1
		ORDER BY deck_id
	`
	return queryDeckIDs(ctx, s.db, logger.FromContextOrDefault(ctx, s.logger), query, userID)
}

// DeleteAllForUser implements store.ReviewRecordStore.DeleteAllForUser.
func (s *PostgresReviewRecordStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM review_records WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete review records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("review progress reset",
		slog.String("user_id", userID.String()),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

// WithTx implements store.ReviewRecordStore.WithTx.
func (s *PostgresReviewRecordStore) WithTx(tx *sql.Tx) store.ReviewRecordStore {
	return &PostgresReviewRecordStore{db: tx, logger: s.logger}
}

// queryDeckIDs runs a single-column deck_id query.
func queryDeckIDs(ctx context.Context, db store.DBTX, log *slog.Logger, query string, args ...any) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query deck ids", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}
