package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/phrazzld/lingo-api/internal/store"
)

// MockVocabularyStore implements store.VocabularyStore in memory.
type MockVocabularyStore struct {
	ListTermsFn func(ctx context.Context, language string) ([]string, error)

	mu    sync.Mutex
	terms map[string][]string

	ListCalls int
}

var _ store.VocabularyStore = (*MockVocabularyStore)(nil)

// NewMockVocabularyStore creates a store preloaded with pools keyed by language.
func NewMockVocabularyStore(pools map[string][]string) *MockVocabularyStore {
	m := &MockVocabularyStore{terms: make(map[string][]string)}
	for lang, terms := range pools {
		m.terms[strings.ToLower(lang)] = slices.Clone(terms)
	}
	return m
}

// ListTerms implements store.VocabularyStore.
func (m *MockVocabularyStore) ListTerms(ctx context.Context, language string) ([]string, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListTermsFn != nil {
		return m.ListTermsFn(ctx, language)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.terms[strings.ToLower(language)]), nil
}

// AddTerms implements store.VocabularyStore.
func (m *MockVocabularyStore) AddTerms(ctx context.Context, language string, terms []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.terms == nil {
		m.terms = make(map[string][]string)
	}
	lang := strings.ToLower(language)
	added := 0
	for _, term := range terms {
		if !slices.Contains(m.terms[lang], term) {
			m.terms[lang] = append(m.terms[lang], term)
			added++
		}
	}
	return added, nil
}
