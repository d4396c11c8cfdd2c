// Package review schedules flashcard reviews: it grades cards, picks the next
// card for a study session and manages a learner's enrolled records.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Common service errors
var (
	// ErrRecordNotFound is returned when the learner has no record for the flashcard.
	ErrRecordNotFound = errors.New("review record not found")

	// ErrConflict is returned when a grade could not be applied after retrying
	// concurrent modifications of the same record.
	ErrConflict = errors.New("review record was modified concurrently")

	// ErrAlreadyEnrolled is returned when enrolling a flashcard the learner already has.
	ErrAlreadyEnrolled = errors.New("flashcard already enrolled")
)

// Service defines the operations for reviewing flashcards.
type Service interface {
	// SubmitGrade applies grade to the learner's record for flashcardID and
	// returns the updated record.
	//
	// The read, the scheduling update and the daily activity increment for a
	// first review run in one transaction. Concurrent modifications are
	// retried a bounded number of times before ErrConflict is returned.
	//
	// Returns:
	//   - domain.ErrInvalidGrade if grade is not one of the four grades
	//   - ErrRecordNotFound if the learner has no such record
	//   - ErrConflict if retries were exhausted
	SubmitGrade(ctx context.Context, userID uuid.UUID, flashcardID int64, grade domain.Grade) (*domain.ReviewRecord, error)

	// PickNextCard selects the next card for session. New cards are served
	// while session.RemainingNew is positive, each one consuming a unit of the
	// budget; after that the earliest due card is served. Candidates are
	// re-read before serving and skipped if they changed.
	//
	// session.RemainingNew is first lowered to the deck's current remaining
	// new-card budget, so a caller can never raise the daily limit.
	//
	// A result with a nil Record means nothing is left to study today.
	PickNextCard(ctx context.Context, session *Session) (*NextCard, error)

	// GetNextCard starts a session from the deck's counters and picks one card.
	// Unknown decks yield store.ErrDeckNotFound.
	GetNextCard(ctx context.Context, userID uuid.UUID, deckID int64) (*NextCard, error)

	// EnrollCard creates the new-state record for flashcardID in deckID, due today.
	// Returns ErrAlreadyEnrolled for a duplicate.
	EnrollCard(ctx context.Context, userID uuid.UUID, deckID, flashcardID int64) (*domain.ReviewRecord, error)

	// ResetProgress deletes every record the learner has and returns how many were removed.
	ResetProgress(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListRecords returns the learner's records ordered by flashcard ID,
	// limited to one deck when deckID is not nil.
	ListRecords(ctx context.Context, userID uuid.UUID, deckID *int64) ([]*domain.ReviewRecord, error)
}

// ServiceError wraps errors from the review service with context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitGradeError creates a ServiceError for the submit_grade operation.
func NewSubmitGradeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_grade", Message: message, Err: err}
}

// NewPickNextCardError creates a ServiceError for the pick_next_card operation.
func NewPickNextCardError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "pick_next_card", Message: message, Err: err}
}
