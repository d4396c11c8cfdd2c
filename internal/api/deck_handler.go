package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/redact"
	"github.com/phrazzld/lingo-api/internal/service/deck"
)

// DeckHandler serves deck counters and settings.
type DeckHandler struct {
	decks  deck.Service
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(decks deck.Service, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DeckHandler")
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// GetCounters handles GET /api/decks/{deckID}/counters.
func (h *DeckHandler) GetCounters(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := pathID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	counters, err := h.decks.GetDeckCounters(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute deck counters")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, counters)
}

// ListCounters handles GET /api/decks/counters.
func (h *DeckHandler) ListCounters(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	counters, err := h.decks.ListDeckCounters(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute deck counters")
		return
	}
	if counters == nil {
		counters = []*domain.DeckCounters{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, counters)
}

// GetSettings handles GET /api/decks/{deckID}/settings.
func (h *DeckHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := pathID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	settings, err := h.decks.GetSettings(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SettingsResponse{
		DeckID:           settings.DeckID,
		FlashcardsPerDay: settings.FlashcardsPerDay,
	})
}

// PutSettings handles PUT /api/decks/{deckID}/settings.
func (h *DeckHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := pathID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SettingsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid settings request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	settings := &domain.DeckSettings{
		UserID:           userID,
		DeckID:           deckID,
		FlashcardsPerDay: *req.FlashcardsPerDay,
	}
	if err := h.decks.SaveSettings(r.Context(), settings); err != nil {
		HandleAPIError(w, r, err, "Failed to save deck settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SettingsResponse{
		DeckID:           settings.DeckID,
		FlashcardsPerDay: settings.FlashcardsPerDay,
	})
}
