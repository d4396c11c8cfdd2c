package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
	"github.com/phrazzld/lingo-api/internal/config"
	quizdomain "github.com/phrazzld/lingo-api/internal/domain/quiz"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/service/deck"
	"github.com/phrazzld/lingo-api/internal/service/quiz"
	"github.com/phrazzld/lingo-api/internal/service/review"
	"github.com/phrazzld/lingo-api/internal/store"
)

// application holds the shared dependencies of the running server so they
// can be wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService    auth.JWTService
	reviewService review.Service
	deckService   deck.Service
	quizService   quiz.Service
	gradeLimiter  *apiMiddleware.RateLimiter
}

// newApplication builds stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	location, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduler timezone: %w", err)
	}

	records := postgres.NewPostgresReviewRecordStore(db, logger)
	ledger := postgres.NewPostgresActivityLedgerStore(db, logger)
	settings := postgres.NewPostgresDeckSettingsStore(db, logger)
	vocabulary := postgres.NewPostgresVocabularyStore(db, logger)
	transactor := store.NewTransactor(db)

	app.deckService = deck.NewService(records, ledger, settings, deck.Config{
		Location: location,
	}, logger)

	app.reviewService = review.NewService(
		records,
		ledger,
		transactor,
		app.deckService,
		srs.NewServiceWithParams(schedulingParams(cfg.Scheduler)),
		review.Config{
			Location:           location,
			MaxConflictRetries: cfg.Scheduler.MaxConflictRetries,
			CandidateBatch:     cfg.Scheduler.CandidateBatch,
		},
		logger,
	)

	app.quizService = quiz.NewService(vocabulary, quizdomain.NewSampler(nil), quiz.Config{
		PoolTTL: cfg.Quiz.PoolTTL,
	}, logger)

	app.gradeLimiter = apiMiddleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst)

	logger.Info("Application initialized successfully")
	return app, nil
}

// schedulingParams maps scheduler configuration onto interval parameters.
func schedulingParams(cfg config.SchedulerConfig) *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		EasyMultiplier:    cfg.EasyMultiplier,
		CorrectMultiplier: cfg.CorrectMultiplier,
		HardMultiplier:    cfg.HardMultiplier,
		MinInterval:       cfg.MinIntervalDays,
		MaxInterval:       cfg.MaxIntervalDays,
	})
}

// Run serves HTTP until ctx is cancelled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
