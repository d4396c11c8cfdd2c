package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ActivityLedgerStore records how many new flashcards a learner started per deck per day.
type ActivityLedgerStore interface {
	// Get returns the ledger entry for (userID, deckID, date).
	// Returns ErrActivityEntryNotFound when nothing was introduced that day.
	Get(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time) (*domain.DailyActivityEntry, error)

	// IncrementOrCreate adds one to the day's counter, creating the row at 1
	// if it does not exist, and returns the resulting entry.
	IncrementOrCreate(
		ctx context.Context,
		userID uuid.UUID,
		deckID int64,
		date time.Time,
	) (*domain.DailyActivityEntry, error)

	// WithTx returns an ActivityLedgerStore that runs its queries on tx.
	WithTx(tx *sql.Tx) ActivityLedgerStore
}
