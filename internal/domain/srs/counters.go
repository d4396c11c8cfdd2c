package srs

import "github.com/phrazzld/lingo-api/internal/domain"

// CounterInput carries the raw counts needed to summarize one deck for one day.
type CounterInput struct {
	DeckID             int64
	DueCount           int // scheduled records with next review date on or before today
	TotalNewCount      int // records never graded
	NewIntroducedToday int // ledger count for today, 0 when absent
	FlashcardsPerDay   int
}

// ComputeDeckCounters derives the review count and the remaining new-card
// budget for a deck. The remaining budget is clamped to [0, TotalNewCount].
func ComputeDeckCounters(in CounterInput) domain.DeckCounters {
	potentialNew := in.FlashcardsPerDay - in.NewIntroducedToday

	remaining := min(in.TotalNewCount, potentialNew)
	if remaining < 0 {
		remaining = 0
	}

	return domain.DeckCounters{
		DeckID:             in.DeckID,
		ReviewCount:        in.DueCount,
		RemainingNewCount:  remaining,
		TotalNewCount:      in.TotalNewCount,
		NewIntroducedToday: in.NewIntroducedToday,
		FlashcardsPerDay:   in.FlashcardsPerDay,
	}
}
