package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingo-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
)

// setupRouter registers middleware and routes on a new chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizService, app.config.Quiz.DistractorCount, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(app.gradeLimiter.Limit).Post("/cards/{flashcardID}/grade", reviewHandler.SubmitGrade)

		r.Get("/decks/counters", deckHandler.ListCounters)
		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/counters", deckHandler.GetCounters)
			r.Get("/next", reviewHandler.GetNextCard)
			r.Post("/cards/{flashcardID}", reviewHandler.EnrollCard)
			r.Get("/settings", deckHandler.GetSettings)
			r.Put("/settings", deckHandler.PutSettings)
		})

		r.Get("/records", reviewHandler.ListRecords)
		r.Delete("/progress", reviewHandler.ResetProgress)

		r.Get("/quiz/options", quizHandler.GetOptions)
		r.Post("/quiz/pools/{language}/refresh", quizHandler.RefreshPool)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
