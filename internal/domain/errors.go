// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArgument is returned when a caller supplies a value outside the
	// accepted range, such as an unknown grade or a negative budget.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidGrade is returned when a grade is not one of the four recognized values.
	ErrInvalidGrade = fmt.Errorf("%w: unrecognized grade", ErrInvalidArgument)

	// ErrInvalidDate is returned when a date string is not an ISO calendar date.
	ErrInvalidDate = fmt.Errorf("%w: malformed date", ErrInvalidArgument)
)

// Validation errors for review records and deck settings. Each wraps ErrValidation.
var (
	ErrEmptyUserID        = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrInvalidFlashcardID = fmt.Errorf("%w: flashcard ID must be positive", ErrValidation)
	ErrInvalidDeckID      = fmt.Errorf("%w: deck ID must be positive", ErrValidation)
	ErrInvalidInterval    = fmt.Errorf("%w: review interval must be greater than 0", ErrValidation)
	ErrInvalidCounters    = fmt.Errorf("%w: review counters are inconsistent", ErrValidation)
	ErrInvalidDifficulty  = fmt.Errorf("%w: average difficulty out of range", ErrValidation)
	ErrStateMismatch      = fmt.Errorf("%w: record state does not match review count", ErrValidation)
	ErrMissingReviewDate  = fmt.Errorf("%w: next review date is required", ErrValidation)
	ErrInvalidDailyBudget = fmt.Errorf("%w: flashcards per day cannot be negative", ErrValidation)
)
