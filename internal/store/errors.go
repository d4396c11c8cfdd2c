package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a second copy
	// of a uniquely keyed entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrConflict is returned when a write lost a race: the row changed since
	// it was read, or the database aborted the transaction on a serialization
	// failure or deadlock. Callers may retry the whole unit of work.
	ErrConflict = errors.New("concurrent modification")

	// ErrUnavailable is returned when the backing database cannot be reached
	// or a transaction could not be started or committed.
	ErrUnavailable = errors.New("store unavailable")

	// ErrReviewRecordNotFound indicates that no review record exists for the
	// requested (user, flashcard) pair.
	ErrReviewRecordNotFound = fmt.Errorf("%w: review record", ErrNotFound)

	// ErrActivityEntryNotFound indicates that no ledger row exists for the
	// requested (user, deck, date).
	ErrActivityEntryNotFound = fmt.Errorf("%w: activity entry", ErrNotFound)

	// ErrDeckSettingsNotFound indicates that the learner never saved settings
	// for the deck. Callers treat it as the zero default.
	ErrDeckSettingsNotFound = fmt.Errorf("%w: deck settings", ErrNotFound)

	// ErrDeckNotFound indicates that the learner has neither review records
	// nor settings for the deck.
	ErrDeckNotFound = fmt.Errorf("%w: deck", ErrNotFound)

	// ErrReviewRecordExists indicates that the flashcard is already enrolled
	// for the learner.
	ErrReviewRecordExists = fmt.Errorf("%w: review record", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConflictError reports whether the error signals a retryable write conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "review_record", "deck_settings")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Entity, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
