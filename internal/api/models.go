package api

import "github.com/phrazzld/lingo-api/internal/domain"

// GradeRequest is the body of POST /api/cards/{flashcardID}/grade.
type GradeRequest struct {
	Grade string `json:"grade" validate:"required,oneof=wrong hard correct easy"`
}

// SettingsRequest is the body of PUT /api/decks/{deckID}/settings.
type SettingsRequest struct {
	FlashcardsPerDay *int `json:"flashcards_per_day" validate:"required,gte=0"`
}

// RecordResponse is a review record as exposed to clients. Dates are YYYY-MM-DD.
type RecordResponse struct {
	FlashcardID               int64   `json:"flashcard_id"`
	DeckID                    int64   `json:"deck_id"`
	State                     string  `json:"state"`
	ReviewIntervalDays        float64 `json:"review_interval_days"`
	TimesReviewed             int     `json:"times_reviewed"`
	TimesRecalledSuccessfully int     `json:"times_recalled_successfully"`
	AverageDifficulty         float64 `json:"average_difficulty"`
	LastReviewDate            *string `json:"last_review_date"`
	NextReviewDate            string  `json:"next_review_date"`
	Version                   int     `json:"version"`
}

// NextCardResponse is the body of GET /api/decks/{deckID}/next.
type NextCardResponse struct {
	Card         RecordResponse `json:"card"`
	IsNew        bool           `json:"is_new"`
	RemainingNew int            `json:"remaining_new"`
}

// SettingsResponse is a deck's settings.
type SettingsResponse struct {
	DeckID           int64 `json:"deck_id"`
	FlashcardsPerDay int   `json:"flashcards_per_day"`
}

// ResetResponse reports how many records ResetProgress removed.
type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}

func recordToResponse(r *domain.ReviewRecord) RecordResponse {
	resp := RecordResponse{
		FlashcardID:               r.FlashcardID,
		DeckID:                    r.DeckID,
		State:                     string(r.State),
		ReviewIntervalDays:        r.IntervalDays,
		TimesReviewed:             r.TimesReviewed,
		TimesRecalledSuccessfully: r.TimesRecalledSuccessfully,
		AverageDifficulty:         r.AverageDifficulty,
		NextReviewDate:            domain.FormatDate(r.NextReviewDate),
		Version:                   r.Version,
	}
	if r.LastReviewDate != nil {
		last := domain.FormatDate(*r.LastReviewDate)
		resp.LastReviewDate = &last
	}
	return resp
}

func recordsToResponse(records []*domain.ReviewRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, recordToResponse(r))
	}
	return out
}
