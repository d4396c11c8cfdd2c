package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresDeckSettingsStore implements store.DeckSettingsStore.
type PostgresDeckSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckSettingsStore creates a deck settings store on db.
func NewPostgresDeckSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresDeckSettingsStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_settings_store")),
	}
}

var _ store.DeckSettingsStore = (*PostgresDeckSettingsStore)(nil)

// Get implements store.DeckSettingsStore.Get.
func (s *PostgresDeckSettingsStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
) (*domain.DeckSettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, deck_id, flashcards_per_day, updated_at
		FROM deck_settings
		WHERE user_id = $1 AND deck_id = $2
	`

	var settings domain.DeckSettings
	err := s.db.QueryRowContext(ctx, query, userID, deckID).Scan(
		&settings.UserID,
		&settings.DeckID,
		&settings.FlashcardsPerDay,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck settings not found", slog.Int64("deck_id", deckID))
			return nil, store.ErrDeckSettingsNotFound
		}
		log.Error("failed to read deck settings",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, MapError(err)
	}
	return &settings, nil
}

// Upsert implements store.DeckSettingsStore.Upsert.
func (s *PostgresDeckSettingsStore) Upsert(ctx context.Context, settings *domain.DeckSettings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("deck settings validation failed",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", settings.DeckID))
		return err
	}

	query := `
		INSERT INTO deck_settings (user_id, deck_id, flashcards_per_day)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, deck_id)
		DO UPDATE SET flashcards_per_day = EXCLUDED.flashcards_per_day, updated_at = NOW()
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, settings.UserID, settings.DeckID, settings.FlashcardsPerDay).
		Scan(&settings.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert deck settings",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", settings.DeckID))
		return MapError(err)
	}

	log.Info("deck settings saved",
		slog.Int64("deck_id", settings.DeckID),
		slog.Int("flashcards_per_day", settings.FlashcardsPerDay))
	return nil
}

// ListDeckIDs implements store.DeckSettingsStore.ListDeckIDs.
func (s *PostgresDeckSettingsStore) ListDeckIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	query := `SELECT deck_id FROM deck_settings WHERE user_id = $1 ORDER BY deck_id`
	return queryDeckIDs(ctx, s.db, logger.FromContextOrDefault(ctx, s.logger), query, userID)
}

// WithTx implements store.DeckSettingsStore.WithTx.
func (s *PostgresDeckSettingsStore) WithTx(tx *sql.Tx) store.DeckSettingsStore {
	return &PostgresDeckSettingsStore{db: tx, logger: s.logger}
}
