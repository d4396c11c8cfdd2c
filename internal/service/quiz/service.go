// Package quiz serves multiple-choice options backed by cached vocabulary pools.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
	quizdomain "github.com/phrazzld/lingo-api/internal/domain/quiz"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPoolTTL     = 10 * time.Minute
	defaultLoadTimeout = 5 * time.Second
)

// ErrEmptyLanguage is returned when no language is named.
var ErrEmptyLanguage = fmt.Errorf("%w: language is required", domain.ErrInvalidArgument)

// Options is one multiple-choice question.
type Options struct {
	Term     string   `json:"term"`
	Language string   `json:"language"`
	Options  []string `json:"options"`
}

// Service builds quiz options from stored vocabulary.
type Service interface {
	// BuildQuizOptions returns term plus count distractors drawn from the
	// language's vocabulary, shuffled.
	BuildQuizOptions(ctx context.Context, term, language string, count int) (*Options, error)

	// Invalidate drops the cached pool for language.
	Invalidate(language string)
}

// Config tunes the pool cache.
type Config struct {
	PoolTTL time.Duration
	// LoadTimeout bounds one shared pool load, which outlives the caller
	// that started it.
	LoadTimeout time.Duration
	Now         func() time.Time
}

type cachedPool struct {
	terms    []string
	loadedAt time.Time
}

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	vocab   store.VocabularyStore
	sampler *quizdomain.Sampler
	cfg     Config
	logger  *slog.Logger

	mu    sync.RWMutex
	pools map[string]cachedPool
	loads singleflight.Group
}

// NewService creates a quiz Service. A nil sampler gets a randomly seeded one.
func NewService(vocab store.VocabularyStore, sampler *quizdomain.Sampler, cfg Config, logger *slog.Logger) Service {
	if vocab == nil {
		panic("vocabulary store cannot be nil")
	}
	if sampler == nil {
		sampler = quizdomain.NewSampler(nil)
	}
	if cfg.PoolTTL <= 0 {
		cfg.PoolTTL = defaultPoolTTL
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		vocab:   vocab,
		sampler: sampler,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "quiz_service")),
		pools:   make(map[string]cachedPool),
	}
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

// BuildQuizOptions implements Service.BuildQuizOptions.
func (s *serviceImpl) BuildQuizOptions(ctx context.Context, term, language string, count int) (*Options, error) {
	lang := normalizeLanguage(language)
	if lang == "" {
		return nil, ErrEmptyLanguage
	}

	pool, err := s.pool(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s vocabulary: %w", lang, err)
	}

	options, err := s.sampler.BuildOptions(term, pool, count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("cannot build quiz options",
			slog.String("language", lang),
			slog.Int("pool_size", len(pool)),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &Options{Term: term, Language: lang, Options: options}, nil
}

// pool returns the cached terms for lang, loading them once per TTL.
func (s *serviceImpl) pool(ctx context.Context, lang string) ([]string, error) {
	s.mu.RLock()
	cached, ok := s.pools[lang]
	s.mu.RUnlock()
	if ok && s.cfg.Now().Sub(cached.loadedAt) < s.cfg.PoolTTL {
		return cached.terms, nil
	}

	loaded := s.loads.DoChan(lang, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LoadTimeout)
		defer cancel()

		terms, err := s.vocab.ListTerms(loadCtx, lang)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.pools[lang] = cachedPool{terms: terms, loadedAt: s.cfg.Now()}
		s.mu.Unlock()
		return terms, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-loaded:
		if res.Err != nil {
			return nil, res.Err
		}
		logger.FromContextOrDefault(ctx, s.logger).Debug("vocabulary pool loaded",
			slog.String("language", lang),
			slog.Bool("shared", res.Shared))
		return res.Val.([]string), nil
	}
}

// Invalidate implements Service.Invalidate.
func (s *serviceImpl) Invalidate(language string) {
	s.mu.Lock()
	delete(s.pools, normalizeLanguage(language))
	s.mu.Unlock()
}
