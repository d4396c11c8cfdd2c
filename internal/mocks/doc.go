// Package mocks provides shared test doubles for the store interfaces and
// services.
//
// The store doubles keep state in memory and mirror the SQL stores' ordering
// and version checks, so service tests exercise real scheduling flows. Any
// method can be overridden through its Fn field:
//
//	records := mocks.NewMockReviewRecordStore()
//	records.UpdateFn = func(ctx context.Context, r *domain.ReviewRecord) error {
//	    return store.ErrConflict
//	}
//
// Service doubles return their Err field unless a Fn override is set.
package mocks
