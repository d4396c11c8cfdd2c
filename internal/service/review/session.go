package review

import (
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Session is the caller-owned state of one study session in one deck.
type Session struct {
	UserID uuid.UUID
	DeckID int64
	// RemainingNew is how many more new cards may be served today.
	RemainingNew int
}

// NextCard is the outcome of picking a card.
type NextCard struct {
	// Record is nil when nothing is left to study.
	Record *domain.ReviewRecord
	// IsNew reports whether Record had never been graded.
	IsNew bool
	// RemainingNew is the session budget after serving Record.
	RemainingNew int
}

// Exhausted reports whether the session has nothing left to serve.
func (n *NextCard) Exhausted() bool {
	return n == nil || n.Record == nil
}
