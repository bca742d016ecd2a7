package localstore

import (
	"context"
	"time"
)

// LatencyStore wraps a Store and sleeps before every call, simulating the
// round-trip a real backend would add. The sleep respects context
// cancellation so callers can still time out.
type LatencyStore struct {
	inner Store
	delay time.Duration
}

// WithLatency returns store unchanged when delay is zero.
func WithLatency(store Store, delay time.Duration) Store {
	if delay <= 0 {
		return store
	}
	return &LatencyStore{inner: store, delay: delay}
}

func (s *LatencyStore) sleep(ctx context.Context) error {
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *LatencyStore) Get(ctx context.Context, b Bucket) ([]byte, bool, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, false, err
	}
	return s.inner.Get(ctx, b)
}

func (s *LatencyStore) Set(ctx context.Context, b Bucket, value []byte) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	return s.inner.Set(ctx, b, value)
}

func (s *LatencyStore) SetIfAbsent(ctx context.Context, b Bucket, value []byte) (bool, error) {
	if err := s.sleep(ctx); err != nil {
		return false, err
	}
	return s.inner.SetIfAbsent(ctx, b, value)
}
