package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/service/deck"
	"github.com/phrazzld/lingo-api/internal/service/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flowServer routes next-card requests through the real review and deck
// services backed by in-memory stores.
type flowServer struct {
	records  *mocks.MockReviewRecordStore
	settings *mocks.MockDeckSettingsStore
	userID   uuid.UUID
	handler  http.Handler
}

func newFlowServer(t *testing.T) *flowServer {
	t.Helper()

	now := func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	fs := &flowServer{
		records:  mocks.NewMockReviewRecordStore(),
		settings: mocks.NewMockDeckSettingsStore(),
		userID:   uuid.New(),
	}
	ledger := mocks.NewMockActivityLedgerStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	decks := deck.NewService(fs.records, ledger, fs.settings, deck.Config{Now: now}, log)
	reviews := review.NewService(fs.records, ledger, &mocks.FakeTransactor{}, decks,
		srs.NewDefaultService(), review.Config{Now: now, CandidateBatch: 10}, log)
	rh := NewReviewHandler(reviews, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.WithUserID(req.Context(), fs.userID)))
		})
	})
	r.Get("/api/decks/{deckID}/next", rh.GetNextCard)
	fs.handler = r
	return fs
}

func (fs *flowServer) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	fs.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (fs *flowServer) seedNew(flashcardIDs ...int64) {
	for _, id := range flashcardIDs {
		fs.records.Seed(&domain.ReviewRecord{
			UserID:         fs.userID,
			FlashcardID:    id,
			DeckID:         7,
			State:          domain.StateNew,
			IntervalDays:   domain.InitialIntervalDays,
			NextReviewDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		})
	}
}

func TestGetNextCardHandler_SessionBudgetBoundedByDeck(t *testing.T) {
	t.Parallel()

	t.Run("deck without a daily budget serves no new cards", func(t *testing.T) {
		t.Parallel()
		fs := newFlowServer(t)
		fs.seedNew(1, 2)

		rec := fs.get("/api/decks/7/next?remaining_new=50")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("inflated budget is lowered to the deck's", func(t *testing.T) {
		t.Parallel()
		fs := newFlowServer(t)
		fs.seedNew(1, 2, 3)
		require.NoError(t, fs.settings.Upsert(context.Background(),
			&domain.DeckSettings{UserID: fs.userID, DeckID: 7, FlashcardsPerDay: 2}))

		rec := fs.get("/api/decks/7/next?remaining_new=50")
		require.Equal(t, http.StatusOK, rec.Code)
		var body NextCardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.IsNew)
		assert.Equal(t, 1, body.RemainingNew)
	})
}

func TestGetNextCardHandler_UnknownDeck(t *testing.T) {
	t.Parallel()

	fs := newFlowServer(t)
	fs.seedNew(1)

	for _, path := range []string{"/api/decks/999/next", "/api/decks/999/next?remaining_new=3"} {
		rec := fs.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Deck not found", decodeError(t, rec), path)
	}
}
