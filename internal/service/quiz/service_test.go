package quiz_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
	quizdomain "github.com/phrazzld/lingo-api/internal/domain/quiz"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/service/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spanish = []string{"casa", "perro", "gato", "libro", "mesa", "silla", "agua"}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newService(vocab *mocks.MockVocabularyStore, c *clock) quiz.Service {
	sampler := quizdomain.NewSampler(rand.New(rand.NewPCG(1, 2)))
	return quiz.NewService(vocab, sampler, quiz.Config{PoolTTL: time.Minute, Now: c.Now}, nil)
}

func TestBuildQuizOptions(t *testing.T) {
	t.Parallel()

	vocab := mocks.NewMockVocabularyStore(map[string][]string{"spanish": spanish})
	svc := newService(vocab, &clock{now: time.Now()})

	got, err := svc.BuildQuizOptions(context.Background(), "casa", " Spanish ", 3)
	require.NoError(t, err)
	assert.Equal(t, "spanish", got.Language)
	assert.Len(t, got.Options, 4)
	assert.Contains(t, got.Options, "casa")

	seen := map[string]bool{}
	for _, option := range got.Options {
		assert.False(t, seen[option], "duplicate option %q", option)
		seen[option] = true
	}
}

func TestBuildQuizOptions_Errors(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("connection refused")
	vocab := mocks.NewMockVocabularyStore(map[string][]string{"spanish": spanish, "tiny": {"a", "b"}})
	failing := mocks.NewMockVocabularyStore(nil)
	failing.ListTermsFn = func(ctx context.Context, language string) ([]string, error) {
		return nil, loadErr
	}

	tests := []struct {
		name     string
		vocab    *mocks.MockVocabularyStore
		term     string
		language string
		count    int
		wantErr  error
	}{
		{"empty language", vocab, "casa", "  ", 3, quiz.ErrEmptyLanguage},
		{"empty term", vocab, "", "spanish", 3, domain.ErrInvalidArgument},
		{"zero count", vocab, "casa", "spanish", 0, quizdomain.ErrInvalidCount},
		{"pool too small", vocab, "a", "tiny", 3, quizdomain.ErrInsufficientPool},
		{"unknown language", vocab, "casa", "klingon", 3, quizdomain.ErrInsufficientPool},
		{"store failure", failing, "casa", "spanish", 3, loadErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(tt.vocab, &clock{now: time.Now()})
			got, err := svc.BuildQuizOptions(context.Background(), tt.term, tt.language, tt.count)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPoolCache(t *testing.T) {
	t.Parallel()

	vocab := mocks.NewMockVocabularyStore(map[string][]string{"spanish": spanish})
	c := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := newService(vocab, c)
	ctx := context.Background()

	_, err := svc.BuildQuizOptions(ctx, "casa", "spanish", 3)
	require.NoError(t, err)
	_, err = svc.BuildQuizOptions(ctx, "perro", "spanish", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, vocab.ListCalls, "second request should hit the cache")

	c.Advance(2 * time.Minute)
	_, err = svc.BuildQuizOptions(ctx, "casa", "spanish", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, vocab.ListCalls, "expired pool should reload")

	_, err = vocab.AddTerms(ctx, "spanish", []string{"zapato"})
	require.NoError(t, err)
	svc.Invalidate("SPANISH")
	_, err = svc.BuildQuizOptions(ctx, "casa", "spanish", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, vocab.ListCalls)
}

func TestPoolCache_ConcurrentLoads(t *testing.T) {
	t.Parallel()

	vocab := mocks.NewMockVocabularyStore(nil)
	vocab.ListTermsFn = func(ctx context.Context, language string) ([]string, error) {
		time.Sleep(50 * time.Millisecond)
		return spanish, nil
	}
	svc := newService(vocab, &clock{now: time.Now()})

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.BuildQuizOptions(context.Background(), spanish[i%len(spanish)], "spanish", 3)
			if err == nil && len(got.Options) != 4 {
				err = fmt.Errorf("got %d options", len(got.Options))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Less(t, vocab.ListCalls, workers, "concurrent misses should share a load")
}

func TestPoolCache_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	vocab := mocks.NewMockVocabularyStore(nil)
	vocab.ListTermsFn = func(ctx context.Context, language string) ([]string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return spanish, nil
	}
	svc := newService(vocab, &clock{now: time.Now()})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.BuildQuizOptions(firstCtx, "casa", "spanish", 3)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.BuildQuizOptions(context.Background(), "perro", "spanish", 3)
		secondErr <- err
	}()

	// The first caller gives up while the load is still running.
	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.NoError(t, <-secondErr)
	assert.Equal(t, 1, vocab.ListCalls)

	// The pool is cached for later callers.
	_, err := svc.BuildQuizOptions(context.Background(), "gato", "spanish", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, vocab.ListCalls)
}
