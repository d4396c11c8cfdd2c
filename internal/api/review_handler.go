package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/redact"
	"github.com/phrazzld/lingo-api/internal/service/review"
)

// ReviewHandler handles grading, card selection and enrollment.
type ReviewHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews review.Service, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitGrade handles POST /api/cards/{flashcardID}/grade.
func (h *ReviewHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	flashcardID, err := pathID(r, "flashcardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid grade request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	record, err := h.reviews.SubmitGrade(r.Context(), userID, flashcardID, grade)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit grade")
		return
	}

	log.Debug("grade submitted",
		slog.Int64("flashcard_id", flashcardID),
		slog.String("grade", string(grade)))
	shared.RespondWithJSON(w, r, http.StatusOK, recordToResponse(record))
}

// GetNextCard handles GET /api/decks/{deckID}/next. A remaining_new query
// parameter continues a session with the budget returned by the previous
// call; without it a new session is seeded from the deck counters.
func (h *ReviewHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := pathID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	remaining, hasRemaining, err := queryInt(r, "remaining_new")
	if err != nil || remaining < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid remaining_new")
		return
	}

	var next *review.NextCard
	if hasRemaining {
		next, err = h.reviews.PickNextCard(r.Context(), &review.Session{
			UserID:       userID,
			DeckID:       deckID,
			RemainingNew: remaining,
		})
	} else {
		next, err = h.reviews.GetNextCard(r.Context(), userID, deckID)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next card")
		return
	}

	if next.Exhausted() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NextCardResponse{
		Card:         recordToResponse(next.Record),
		IsNew:        next.IsNew,
		RemainingNew: next.RemainingNew,
	})
}

// EnrollCard handles POST /api/decks/{deckID}/cards/{flashcardID}.
func (h *ReviewHandler) EnrollCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := pathID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	flashcardID, err := pathID(r, "flashcardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	record, err := h.reviews.EnrollCard(r.Context(), userID, deckID, flashcardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to enroll flashcard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, recordToResponse(record))
}

// ResetProgress handles DELETE /api/progress.
func (h *ReviewHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deleted, err := h.reviews.ResetProgress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ResetResponse{Deleted: deleted})
}

// ListRecords handles GET /api/records with an optional deck_id filter.
func (h *ReviewHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var deckID *int64
	if id, present, err := queryInt(r, "deck_id"); err != nil {
		HandleAPIError(w, r, err, "")
		return
	} else if present {
		d := int64(id)
		deckID = &d
	}

	records, err := h.reviews.ListRecords(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list records")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, recordsToResponse(records))
}
