// Package deck computes per-deck review counters and manages deck settings.
package deck

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ErrInvalidSettings is returned when a settings update carries an impossible value.
var ErrInvalidSettings = fmt.Errorf("%w: invalid deck settings", domain.ErrInvalidArgument)

// Service exposes the deck-level view of a learner's progress.
type Service interface {
	// GetDeckCounters returns today's review count and remaining new-card
	// budget for one deck. Counts are read without locking and may be stale
	// by the time the caller acts on them.
	//
	// Returns store.ErrDeckNotFound when the learner has neither review
	// records nor saved settings for the deck.
	GetDeckCounters(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckCounters, error)

	// ListDeckCounters returns counters for every deck the learner has
	// records or settings in, ordered by deck ID.
	ListDeckCounters(ctx context.Context, userID uuid.UUID) ([]*domain.DeckCounters, error)

	// GetSettings returns the deck's settings, or the defaults when none were saved.
	GetSettings(ctx context.Context, userID uuid.UUID, deckID int64) (*domain.DeckSettings, error)

	// SaveSettings creates or replaces the deck's settings.
	SaveSettings(ctx context.Context, settings *domain.DeckSettings) error
}

// ServiceError wraps deck service failures with the operation that produced them.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
