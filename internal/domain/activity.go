package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyActivityEntry counts how many new cards a learner was introduced to in
// one deck on one calendar day.
type DailyActivityEntry struct {
	UserID             uuid.UUID `json:"user_id"`
	DeckID             int64     `json:"deck_id"`
	Date               time.Time `json:"date"`
	NewFlashcardsCount int       `json:"new_flashcards_count"`
}
