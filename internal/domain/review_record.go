package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordState tags whether a review record has ever been graded.
type RecordState string

// Possible record states.
const (
	// StateNew marks a record that has never been graded.
	StateNew RecordState = "new"
	// StateScheduled marks a record that has been graded at least once and
	// carries a meaningful next review date.
	StateScheduled RecordState = "scheduled"
)

// InitialIntervalDays is the interval assigned to a freshly enrolled card.
const InitialIntervalDays = 1.0

// ReviewRecord holds one learner's review statistics for one flashcard.
type ReviewRecord struct {
	ID                        int64       `json:"id"`
	UserID                    uuid.UUID   `json:"user_id"`
	FlashcardID               int64       `json:"flashcard_id"`
	DeckID                    int64       `json:"deck_id"`
	State                     RecordState `json:"state"`
	IntervalDays              float64     `json:"review_interval_days"`
	TimesReviewed             int         `json:"times_reviewed"`
	TimesRecalledSuccessfully int         `json:"times_recalled_successfully"`
	AverageDifficulty         float64     `json:"average_difficulty"`
	LastReviewDate            *time.Time  `json:"last_review_date,omitempty"`
	NextReviewDate            time.Time   `json:"next_review_date"`
	Version                   int         `json:"version"`
	CreatedAt                 time.Time   `json:"created_at"`
	UpdatedAt                 time.Time   `json:"updated_at"`
}

// NewReviewRecord creates the never-graded record for a card enrolled on
// the given day. The card is eligible as soon as a session surfaces it.
func NewReviewRecord(userID uuid.UUID, deckID, flashcardID int64, today time.Time) (*ReviewRecord, error) {
	now := time.Now().UTC()
	record := &ReviewRecord{
		UserID:         userID,
		FlashcardID:    flashcardID,
		DeckID:         deckID,
		State:          StateNew,
		IntervalDays:   InitialIntervalDays,
		NextReviewDate: DateOf(today),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// IsNew reports whether the record has never been graded.
func (r *ReviewRecord) IsNew() bool {
	return r.State == StateNew
}

// IsDue reports whether a scheduled record is eligible for review on today.
// New records are never due; they are budgeted separately.
func (r *ReviewRecord) IsDue(today time.Time) bool {
	return r.State == StateScheduled && !DateOf(r.NextReviewDate).After(DateOf(today))
}

// Validate checks the record's invariants.
func (r *ReviewRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if r.FlashcardID <= 0 {
		return ErrInvalidFlashcardID
	}
	if r.DeckID <= 0 {
		return ErrInvalidDeckID
	}
	if r.IntervalDays <= 0 {
		return ErrInvalidInterval
	}
	if r.TimesReviewed < 0 || r.TimesRecalledSuccessfully < 0 ||
		r.TimesRecalledSuccessfully > r.TimesReviewed {
		return ErrInvalidCounters
	}
	if r.NextReviewDate.IsZero() {
		return ErrMissingReviewDate
	}

	switch r.State {
	case StateNew:
		if r.TimesReviewed != 0 {
			return ErrStateMismatch
		}
		if r.AverageDifficulty != 0 {
			return ErrInvalidDifficulty
		}
	case StateScheduled:
		if r.TimesReviewed == 0 {
			return ErrStateMismatch
		}
		if r.AverageDifficulty < MinDifficulty || r.AverageDifficulty > MaxDifficulty {
			return ErrInvalidDifficulty
		}
	default:
		return ErrStateMismatch
	}

	return nil
}

// Clone returns a deep copy of the record.
func (r *ReviewRecord) Clone() *ReviewRecord {
	c := *r
	if r.LastReviewDate != nil {
		last := *r.LastReviewDate
		c.LastReviewDate = &last
	}
	return &c
}
