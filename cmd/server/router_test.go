package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T, userID uuid.UUID) (*application, *mocks.MockReviewService) {
	t.Helper()

	reviews := &mocks.MockReviewService{}
	app := &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 0, ShutdownTimeout: time.Second},
			Quiz:   config.QuizConfig{DistractorCount: 3},
		},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		jwtService:    mocks.NewAuthenticatingJWTService(userID),
		reviewService: reviews,
		deckService:   &mocks.MockDeckService{},
		quizService:   &mocks.MockQuizService{},
		gradeLimiter:  apiMiddleware.NewRateLimiter(0.001, 1),
	}
	return app, reviews
}

func TestSetupRouter(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	app, reviews := newTestApplication(t, userID)
	reviews.SubmitGradeFn = func(ctx context.Context, uid uuid.UUID, flashcardID int64, grade domain.Grade) (*domain.ReviewRecord, error) {
		return &domain.ReviewRecord{UserID: uid, FlashcardID: flashcardID, DeckID: 1,
			State: domain.StateNew, IntervalDays: 1, Version: 1}, nil
	}
	router := app.setupRouter()

	send := func(method, path, body string, authed bool) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if authed {
			req.Header.Set("Authorization", "Bearer test-token")
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("health is public", func(t *testing.T) {
		rec := send(http.MethodGet, "/health", "", false)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("api requires a token", func(t *testing.T) {
		rec := send(http.MethodGet, "/api/decks/counters", "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("routes reach handlers", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/decks/counters", "", true).Code)
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/decks/4/settings", "", true).Code)
		assert.Equal(t, http.StatusNoContent, send(http.MethodGet, "/api/decks/4/next", "", true).Code)
	})

	t.Run("errors carry the request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/decks/counters", nil)
		req.Header.Set("X-Request-Id", "req-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"trace_id":"req-123"`)
	})

	t.Run("grade submissions are rate limited", func(t *testing.T) {
		first := send(http.MethodPost, "/api/cards/9/grade", `{"grade":"easy"}`, true)
		require.Equal(t, http.StatusOK, first.Code)

		second := send(http.MethodPost, "/api/cards/9/grade", `{"grade":"easy"}`, true)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
	})
}

func TestStartHTTPServer_StopsOnCancel(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t, uuid.New())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- app.startHTTPServer(ctx, http.NotFoundHandler()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
