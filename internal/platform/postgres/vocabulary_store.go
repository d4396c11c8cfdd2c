package postgres

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresVocabularyStore implements store.VocabularyStore on vocabulary_terms.
type PostgresVocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabularyStore creates a vocabulary store on db.
func NewPostgresVocabularyStore(db store.DBTX, logger *slog.Logger) *PostgresVocabularyStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresVocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

var _ store.VocabularyStore = (*PostgresVocabularyStore)(nil)

// ListTerms implements store.VocabularyStore.ListTerms.
func (s *PostgresVocabularyStore) ListTerms(ctx context.Context, language string) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT term FROM vocabulary_terms WHERE language = $1 ORDER BY term`,
		normalizeLanguage(language))
	if err != nil {
		log.Error("failed to query vocabulary",
			slog.String("error", err.Error()),
			slog.String("language", language))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	terms := []string{}
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, MapError(err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("vocabulary loaded",
		slog.String("language", language),
		slog.Int("count", len(terms)))
	return terms, nil
}

// AddTerms implements store.VocabularyStore.AddTerms. Duplicate terms are skipped.
func (s *PostgresVocabularyStore) AddTerms(ctx context.Context, language string, terms []string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	language = normalizeLanguage(language)

	query := `
		INSERT INTO vocabulary_terms (language, term)
		VALUES ($1, $2)
		ON CONFLICT (language, term) DO NOTHING
	`

	inserted := 0
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		result, err := s.db.ExecContext(ctx, query, language, term)
		if err != nil {
			log.Error("failed to insert vocabulary term",
				slog.String("error", err.Error()),
				slog.String("language", language))
			return inserted, MapError(err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	log.Info("vocabulary terms added",
		slog.String("language", language),
		slog.Int("submitted", len(terms)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
