// Package cache is the in-memory query cache: one entry per entity
// collection, holding the latest store-confirmed value plus whatever
// speculative value the mutation coordinator has written over it.
//
// Cached values are treated as immutable. Writers always install fresh
// values; nothing reaches in and mutates a cached slice or struct. That
// discipline is what makes snapshot/restore exact.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Key identifies one cached entity collection.
type Key string

const (
	KeyUser         Key = "user"
	KeyMissions     Key = "missions"
	KeyTransactions Key = "transactions"
	KeyRewards      Key = "rewards"
	KeyMilestones   Key = "milestones"
)

// ErrFetchCanceled is returned to Get callers whose shared fetch was
// canceled by CancelFetch before it settled.
var ErrFetchCanceled = errors.New("fetch canceled")

// Fetcher loads the authoritative value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Update is delivered to subscribers when a key's value changes.
type Update struct {
	Key   Key
	Value any
}

// Entry is one snapshotted cache slot. OK is false when the key held no
// value at snapshot time, so a restore can return the slot to empty.
type Entry struct {
	Value any
	OK    bool
}

// Snapshot captures the state of a set of keys at one instant.
type Snapshot map[Key]Entry

type inflight struct {
	cancel   context.CancelFunc
	done     chan struct{}
	value    any
	err      error
	canceled bool
}

type entry struct {
	fetcher Fetcher
	value   any
	ok      bool
	stale   bool
	fetch   *inflight
	subs    map[int]chan Update
}

// Cache holds entries keyed by Key. One mutex guards everything; all
// synchronous operations (Set, SetMany, SnapshotMany, RestoreMany,
// CancelFetch) take it exactly once, so each is atomic with respect to
// every other cache operation.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	nextSub int
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[Key]*entry),
		logger:  logger,
	}
}

// Register installs the fetcher for a key. Must be called before Get,
// Invalidate, or Warm touch that key.
func (c *Cache) Register(key Key, fetcher Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(key).fetcher = fetcher
}

// entry returns the slot for key, creating it if needed. Caller holds mu.
func (c *Cache) entry(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[int]chan Update)}
		c.entries[key] = e
	}
	return e
}

// Get returns the cached value for key, fetching it when the slot is empty
// or stale. Concurrent callers share a single in-flight fetch per key.
func (c *Cache) Get(ctx context.Context, key Key) (any, error) {
	c.mu.Lock()
	e := c.entry(key)

	if e.ok && !e.stale {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}

	if e.fetch != nil {
		f := e.fetch
		c.mu.Unlock()
		return c.await(ctx, f)
	}

	if e.fetcher == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("no fetcher registered for key %q", key)
	}
	f := c.startFetch(key, e)
	c.mu.Unlock()
	return c.await(ctx, f)
}

// startFetch launches the fetch goroutine for key. Caller holds mu.
// The fetch runs on its own cancelable context, detached from any single
// caller, because its result is shared by every waiter.
func (c *Cache) startFetch(key Key, e *entry) *inflight {
	fctx, cancel := context.WithCancel(context.Background())
	f := &inflight{cancel: cancel, done: make(chan struct{})}
	e.fetch = f
	fetcher := e.fetcher

	go func() {
		value, err := fetcher(fctx)

		c.mu.Lock()
		f.value, f.err = value, err
		close(f.done)
		if f.canceled {
			// A speculative write superseded this fetch; its result
			// must not clobber the cache.
			c.mu.Unlock()
			return
		}
		e.fetch = nil
		if err != nil {
			c.logger.Warn("fetch failed", "key", string(key), "error", err)
			c.mu.Unlock()
			return
		}
		e.value = value
		e.ok = true
		e.stale = false
		c.notify(key, e)
		c.mu.Unlock()
	}()

	return f
}

func (c *Cache) await(ctx context.Context, f *inflight) (any, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.canceled {
		return nil, ErrFetchCanceled
	}
	return f.value, f.err
}

// Set writes a value synchronously. Subscribers see it before Set returns
// to the extent their channels have room; sends never block.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.value = value
	e.ok = true
	e.stale = false
	c.notify(key, e)
}

// SetMany applies several writes under one lock acquisition, so no reader
// observes some of them without the rest.
func (c *Cache) SetMany(values map[Key]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range values {
		e := c.entry(key)
		e.value = value
		e.ok = true
		e.stale = false
		c.notify(key, e)
	}
}

// SnapshotMany captures the listed keys' current state in one lock
// acquisition.
func (c *Cache) SnapshotMany(keys []Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make(Snapshot, len(keys))
	for _, key := range keys {
		e := c.entry(key)
		snap[key] = Entry{Value: e.value, OK: e.ok}
	}
	return snap
}

// RestoreMany returns every snapshotted key to its captured state,
// including emptying slots that were empty at snapshot time.
func (c *Cache) RestoreMany(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, prev := range snap {
		e := c.entry(key)
		e.value = prev.Value
		e.ok = prev.OK
		e.stale = false
		c.notify(key, e)
	}
}

// CancelFetch cancels any in-flight fetch for key and discards its result.
// Waiters receive ErrFetchCanceled.
func (c *Cache) CancelFetch(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	if e.fetch == nil {
		return
	}
	e.fetch.canceled = true
	e.fetch.cancel()
	e.fetch = nil
}

// Invalidate marks key stale. With live subscribers the refetch starts
// immediately in the background; otherwise the next Get performs it.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.stale = true
	if len(e.subs) > 0 && e.fetch == nil && e.fetcher != nil {
		c.startFetch(key, e)
	}
}

// Subscribe registers a change listener for key. Updates are delivered on
// a buffered channel with non-blocking sends; a slow consumer misses
// intermediate values, never blocks a writer. The returned func
// unsubscribes and closes the channel.
func (c *Cache) Subscribe(key Key) (<-chan Update, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	id := c.nextSub
	c.nextSub++
	ch := make(chan Update, 16)
	e.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// notify fans out to subscribers. Caller holds mu.
func (c *Cache) notify(key Key, e *entry) {
	for _, ch := range e.subs {
		select {
		case ch <- Update{Key: key, Value: e.value}:
		default:
			// Subscriber buffer full; it will catch up on the next update.
		}
	}
}
