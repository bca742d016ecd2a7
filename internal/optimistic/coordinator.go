// Package optimistic makes mutations look instantaneous: it writes the
// expected outcome into the query cache before the authoritative write
// settles, then reconciles the cache with the real result.
package optimistic

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/upwardia/upwardia/internal/cache"
	"github.com/upwardia/upwardia/internal/model"
)

// Mutation describes one optimistic mutation instance.
type Mutation struct {
	// Name labels the mutation in logs and failure notices.
	Name string

	// Keys are the cache keys this mutation may touch. Keys[0] is the
	// primary key and receives the canonical user on success; the rest are
	// invalidated so derived views refetch ground truth.
	Keys []cache.Key

	// Update computes speculative next values from the current cached
	// values. It must be pure and must return unchanged input when the
	// target sub-entity is missing, never fail. Values for keys outside
	// Keys are ignored. nil means no speculative write.
	Update func(current map[cache.Key]any) map[cache.Key]any

	// Mutate performs the authoritative write. This is the only step that
	// suspends.
	Mutate func(ctx context.Context) (*model.User, error)
}

// Coordinator runs mutations against a cache. Its mutex serializes the
// synchronous phases (cancel/snapshot/apply and commit/rollback) so a second
// concurrent mutation always snapshots the first one's already-speculative
// values, and no reader ever observes a half-applied phase.
type Coordinator struct {
	mu       sync.Mutex
	cache    *cache.Cache
	notifier Notifier
	logger   *slog.Logger
}

func NewCoordinator(c *cache.Cache, notifier Notifier, logger *slog.Logger) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{cache: c, notifier: notifier, logger: logger}
}

// Run executes the mutation protocol:
//
//  1. cancel in-flight refetches for every affected key
//  2. snapshot the affected keys
//  3. apply the speculative values
//  4. await the authoritative write
//  5. on success, commit the canonical user and invalidate the rest
//  6. on failure, restore every key to its step-2 snapshot and raise one
//     failure notice
//
// Each instance settles exactly once; there are no retries. A rejected
// mutation (validation error) and a storage failure take the same rollback
// path.
func (c *Coordinator) Run(ctx context.Context, m Mutation) (*model.User, error) {
	if len(m.Keys) == 0 {
		return nil, errors.New("optimistic: mutation has no affected keys")
	}
	if m.Mutate == nil {
		return nil, errors.New("optimistic: mutation has no authoritative write")
	}

	snapshot := c.begin(m)

	// The authoritative write must run to completion or failure on its own:
	// a caller that goes away mid-write (dropped connection, abandoned
	// screen) must not leave the store half-mutated.
	user, err := m.Mutate(context.WithoutCancel(ctx))
	if err != nil {
		c.rollback(m, snapshot)
		c.notifier.Notify(Notice{Mutation: m.Name, Err: err})
		return nil, err
	}

	c.commit(m, user)
	return user, nil
}

// begin runs steps 1-3 atomically with respect to other mutations and
// returns the rollback snapshot.
func (c *Coordinator) begin(m Mutation) cache.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range m.Keys {
		c.cache.CancelFetch(key)
	}

	snapshot := c.cache.SnapshotMany(m.Keys)

	if m.Update != nil {
		current := make(map[cache.Key]any, len(snapshot))
		for key, e := range snapshot {
			if e.OK {
				current[key] = e.Value
			}
		}
		next := m.Update(current)
		c.cache.SetMany(c.within(m, next))
	}

	c.logger.Debug("optimistic update applied", "mutation", m.Name)
	return snapshot
}

func (c *Coordinator) commit(m Mutation, user *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(m.Keys[0], user)
	for _, key := range m.Keys[1:] {
		c.cache.Invalidate(key)
	}
	c.logger.Debug("mutation settled", "mutation", m.Name, "outcome", "success")
}

func (c *Coordinator) rollback(m Mutation, snapshot cache.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.RestoreMany(snapshot)
	c.logger.Debug("mutation settled", "mutation", m.Name, "outcome", "rolled back")
}

// within drops updater output for keys the mutation did not declare; an
// undeclared write would survive rollback.
func (c *Coordinator) within(m Mutation, next map[cache.Key]any) map[cache.Key]any {
	out := make(map[cache.Key]any, len(next))
	for key, value := range next {
		if declared(m.Keys, key) {
			out[key] = value
		} else {
			c.logger.Warn("updater wrote undeclared key, dropped", "mutation", m.Name, "key", string(key))
		}
	}
	return out
}

func declared(keys []cache.Key, key cache.Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
