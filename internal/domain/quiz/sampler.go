// Package quiz builds multiple-choice option sets from a vocabulary pool.
package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// DefaultDistractorCount is the number of wrong options shown with each correct term.
const DefaultDistractorCount = 3

var (
	// ErrInvalidCount is returned when fewer than one distractor is requested.
	ErrInvalidCount = fmt.Errorf("%w: distractor count must be positive", domain.ErrInvalidArgument)

	// ErrInsufficientPool is returned when the pool cannot supply enough
	// distinct terms different from the correct one.
	ErrInsufficientPool = fmt.Errorf("%w: vocabulary pool too small", domain.ErrInvalidArgument)

	// ErrEmptyTerm is returned when the correct term is blank.
	ErrEmptyTerm = errors.New("correct term cannot be empty")
)

// Sampler draws distractors uniformly from a pool and shuffles option sets.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a Sampler backed by rng. A nil rng gets a randomly seeded source.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng}
}

// SampleDistractors returns count distinct terms from pool, none equal to
// correct. Terms are drawn uniformly at random and rejected when they match the
// correct term or a term already chosen.
func (s *Sampler) SampleDistractors(correct string, pool []string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	// Counting candidates up front guarantees the rejection loop terminates.
	if available := distinctCandidates(correct, pool); available < count {
		return nil, fmt.Errorf("%w: need %d distractors, pool offers %d", ErrInsufficientPool, count, available)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chosen := make(map[string]struct{}, count)
	distractors := make([]string, 0, count)
	for len(distractors) < count {
		term := pool[s.rng.IntN(len(pool))]
		if term == correct {
			continue
		}
		if _, dup := chosen[term]; dup {
			continue
		}
		chosen[term] = struct{}{}
		distractors = append(distractors, term)
	}

	return distractors, nil
}

// BuildOptions returns the correct term together with count distractors in a
// uniformly random order.
func (s *Sampler) BuildOptions(correct string, pool []string, count int) ([]string, error) {
	if correct == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, ErrEmptyTerm)
	}

	distractors, err := s.SampleDistractors(correct, pool, count)
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, count+1)
	options = append(options, correct)
	options = append(options, distractors...)

	s.shuffle(options)
	return options, nil
}

// shuffle permutes terms in place with Fisher-Yates.
func (s *Sampler) shuffle(terms []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(terms) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		terms[i], terms[j] = terms[j], terms[i]
	}
}

func distinctCandidates(correct string, pool []string) int {
	seen := make(map[string]struct{}, len(pool))
	for _, term := range pool {
		if term != correct {
			seen[term] = struct{}{}
		}
	}
	return len(seen)
}
