package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeckSettings holds a learner's scheduling preferences for one deck.
// The zero value of FlashcardsPerDay means no new cards are introduced.
type DeckSettings struct {
	UserID           uuid.UUID `json:"user_id"`
	DeckID           int64     `json:"deck_id"`
	FlashcardsPerDay int       `json:"flashcards_per_day"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultDeckSettings returns the settings used when a learner never saved any.
func DefaultDeckSettings(userID uuid.UUID, deckID int64) *DeckSettings {
	return &DeckSettings{UserID: userID, DeckID: deckID}
}

// Validate checks the settings' invariants.
func (s *DeckSettings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if s.DeckID <= 0 {
		return ErrInvalidDeckID
	}
	if s.FlashcardsPerDay < 0 {
		return ErrInvalidDailyBudget
	}
	return nil
}

// DeckCounters is the "N new / M to review" summary for one deck on one day.
type DeckCounters struct {
	DeckID             int64 `json:"deck_id"`
	ReviewCount        int   `json:"review_count"`
	RemainingNewCount  int   `json:"remaining_new_count"`
	TotalNewCount      int   `json:"total_new_count"`
	NewIntroducedToday int   `json:"new_introduced_today"`
	FlashcardsPerDay   int   `json:"flashcards_per_day"`
}
