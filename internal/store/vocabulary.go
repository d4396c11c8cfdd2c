package store

import "context"

// VocabularyStore holds the per-language term pools that quiz distractors are drawn from.
type VocabularyStore interface {
	// ListTerms returns every term stored for language. An unknown language yields an empty slice.
	ListTerms(ctx context.Context, language string) ([]string, error)

	// AddTerms stores terms for language, ignoring ones already present, and
	// returns how many were newly inserted.
	AddTerms(ctx context.Context, language string, terms []string) (int, error)
}
