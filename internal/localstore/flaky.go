package localstore

import "context"

// FlakyStore wraps a Store and fails writes while FailWrites is set.
// Reads always pass through. Used by tests to exercise rollback paths.
type FlakyStore struct {
	Store
	FailWrites bool
	Err        error
}

func NewFlakyStore(inner Store, err error) *FlakyStore {
	return &FlakyStore{Store: inner, Err: err}
}

func (s *FlakyStore) Set(ctx context.Context, b Bucket, value []byte) error {
	if s.FailWrites {
		return s.Err
	}
	return s.Store.Set(ctx, b, value)
}

func (s *FlakyStore) SetIfAbsent(ctx context.Context, b Bucket, value []byte) (bool, error) {
	if s.FailWrites {
		return false, s.Err
	}
	return s.Store.SetIfAbsent(ctx, b, value)
}
