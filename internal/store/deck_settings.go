package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// DeckSettingsStore persists per-deck learner preferences.
type DeckSettingsStore interface {
	// Get returns the settings for (userID, deckID).
	// Returns ErrDeckSettingsNotFound if none were saved.
	Get(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error)

	// Upsert creates or replaces the settings and sets UpdatedAt.
	Upsert(ctx context.Context, settings *domain.DeckSettings) error

	// ListDeckIDs returns the deck IDs the user saved settings for, ascending.
	ListDeckIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)

	// WithTx returns a DeckSettingsStore that runs its queries on tx.
	WithTx(tx *sql.Tx) DeckSettingsStore
}
