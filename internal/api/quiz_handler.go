package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain/quiz"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	quizservice "github.com/phrazzld/lingo-api/internal/service/quiz"
)

// QuizHandler serves multiple-choice options.
type QuizHandler struct {
	quizzes      quizservice.Service
	defaultCount int
	logger       *slog.Logger
}

// NewQuizHandler creates a QuizHandler. defaultCount is used when the
// request has no count parameter.
func NewQuizHandler(quizzes quizservice.Service, defaultCount int, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}
	if defaultCount <= 0 {
		defaultCount = quiz.DefaultDistractorCount
	}
	return &QuizHandler{
		quizzes:      quizzes,
		defaultCount: defaultCount,
		logger:       logger.With(slog.String("component", "quiz_handler")),
	}
}

// GetOptions handles GET /api/quiz/options?term=&language=&count=.
func (h *QuizHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	query := r.URL.Query()
	count, present, err := queryInt(r, "count")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !present {
		count = h.defaultCount
	}

	options, err := h.quizzes.BuildQuizOptions(r.Context(), query.Get("term"), query.Get("language"), count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build quiz options")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, options)
}

// RefreshPool handles POST /api/quiz/pools/{language}/refresh. It drops the
// cached pool so the next request reloads terms added by seed-vocabulary.
func (h *QuizHandler) RefreshPool(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	language := chi.URLParam(r, "language")
	if strings.TrimSpace(language) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Language is required")
		return
	}

	h.quizzes.Invalidate(language)
	logger.FromContextOrDefault(r.Context(), h.logger).Info("quiz pool invalidated",
		slog.String("language", language))
	w.WriteHeader(http.StatusNoContent)
}
