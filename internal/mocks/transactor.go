package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lingo-api/internal/store"
)

// FakeTransactor implements store.Transactor without a database. The
// transaction handed to fn is nil, so it pairs with the in-memory stores whose
// WithTx returns themselves.
type FakeTransactor struct {
	// BeginErr, when set, is returned before fn runs.
	BeginErr error

	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

var _ store.Transactor = (*FakeTransactor)(nil)

// RunInTx implements store.Transactor.
func (f *FakeTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	err := fn(ctx, nil)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}
