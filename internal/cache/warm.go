package cache

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Warm primes the listed keys concurrently. Used at startup so the first
// screen renders from cache instead of waiting on five sequential fetches.
func (c *Cache) Warm(ctx context.Context, keys ...Key) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		g.Go(func() error {
			_, err := c.Get(ctx, key)
			return err
		})
	}
	return g.Wait()
}
