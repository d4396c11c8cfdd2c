package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ReviewRecordStore defines the persistence contract for review records.
// A record is keyed by (user, flashcard); its storage ID orders candidates.
type ReviewRecordStore interface {
	// Create inserts a new record and fills in its ID, Version and timestamps.
	// Returns ErrReviewRecordExists if the flashcard is already enrolled for the user.
	// Returns validation errors from the domain record if data is invalid.
	Create(ctx context.Context, record *domain.ReviewRecord) error

	// Get retrieves the record for (userID, flashcardID).
	// Returns ErrReviewRecordNotFound if no record exists.
	// NOTE: no row lock is taken. Use GetForUpdate before updating.
	Get(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.ReviewRecord, error)

	// GetForUpdate retrieves the record with a row-level lock (SELECT ... FOR UPDATE).
	// It must be called on a store bound to a transaction via WithTx.
	// Returns ErrReviewRecordNotFound if no record exists.
	GetForUpdate(ctx context.Context, userID uuid.UUID, flashcardID int64) (*domain.ReviewRecord, error)

	// Update writes the scheduling fields of record if its Version still matches
	// the stored one, then increments Version on the passed record.
	// Returns ErrConflict when the stored version differs and
	// ErrReviewRecordNotFound when the row is gone.
	Update(ctx context.Context, record *domain.ReviewRecord) error

	// ListNew returns up to limit records in the new state for the deck,
	// ordered by ascending ID.
	ListNew(ctx context.Context, userID uuid.UUID, deckID int64, limit int) ([]*domain.ReviewRecord, error)

	// ListDue returns up to limit scheduled records whose next review date is on
	// or before date, ordered by next review date then ID.
	ListDue(
		ctx context.Context,
		userID uuid.UUID,
		deckID int64,
		date time.Time,
		limit int,
	) ([]*domain.ReviewRecord, error)

	// CountNew returns the number of records in the deck that were never reviewed.
	CountNew(ctx context.Context, userID uuid.UUID, deckID int64) (int, error)

	// CountDue returns the number of reviewed records in the deck due on or before date.
	CountDue(ctx context.Context, userID uuid.UUID, deckID int64, date time.Time) (int, error)

	// ListByUser returns the user's records ordered by flashcard ID. A nil
	// deckID lists every deck.
	ListByUser(ctx context.Context, userID uuid.UUID, deckID *int64) ([]*domain.ReviewRecord, error)

	// ListDeckIDs returns the distinct deck IDs the user has records in, ascending.
	ListDeckIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)

	// DeleteAllForUser removes every record owned by the user and returns how many were deleted.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a ReviewRecordStore that runs its queries on tx.
	WithTx(tx *sql.Tx) ReviewRecordStore
}
