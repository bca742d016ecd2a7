// Package api is the domain façade over the bucket store. Every mutating
// call is an authoritative read-modify-write across one or more buckets and
// returns the new canonical user record.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/upwardia/upwardia/internal/localstore"
	"github.com/upwardia/upwardia/internal/model"
)

// Client implements the domain API. A RWMutex serializes mutations against
// each other and against reads, so a concurrent reader in this process never
// observes a half-applied read-modify-write even though the underlying store
// calls suspend.
type Client struct {
	mu     sync.RWMutex
	store  localstore.Store
	logger *slog.Logger

	// Overridable for tests.
	now   func() time.Time
	newID func() string
}

func NewClient(store localstore.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Initialize seeds any bucket that has never been written. Safe to call on
// every launch.
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seeds := []struct {
		bucket localstore.Bucket
		value  any
	}{
		{localstore.BucketUser, model.SeedUser()},
		{localstore.BucketMissions, model.SeedMissions()},
		{localstore.BucketTransactions, model.SeedTransactions()},
		{localstore.BucketRewards, model.SeedRewards()},
		{localstore.BucketMilestones, model.SeedMilestones()},
	}

	for _, s := range seeds {
		data, err := json.Marshal(s.value)
		if err != nil {
			return fmt.Errorf("marshal seed %s: %w", s.bucket, err)
		}
		wrote, err := c.store.SetIfAbsent(ctx, s.bucket, data)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.bucket, err)
		}
		if wrote {
			c.logger.Debug("seeded bucket", "bucket", string(s.bucket))
		}
	}
	return nil
}

// --- Getters ---

func (c *Client) User(ctx context.Context) (*model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadUser(ctx)
}

func (c *Client) Missions(ctx context.Context) ([]model.DailyMission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadMissions(ctx)
}

func (c *Client) Transactions(ctx context.Context) ([]model.Transaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadTransactions(ctx)
}

func (c *Client) Rewards(ctx context.Context) ([]model.Reward, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var rewards []model.Reward
	if err := c.load(ctx, localstore.BucketRewards, &rewards); err != nil {
		return nil, err
	}
	if rewards == nil {
		rewards = model.SeedRewards()
	}
	return rewards, nil
}

func (c *Client) Milestones(ctx context.Context) ([]model.Milestone, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var milestones []model.Milestone
	if err := c.load(ctx, localstore.BucketMilestones, &milestones); err != nil {
		return nil, err
	}
	if milestones == nil {
		milestones = model.SeedMilestones()
	}
	return milestones, nil
}

// --- Mutations ---

// CompleteMission marks a mission complete, credits its points, and appends
// a positive ledger entry. Unknown ids and already-completed missions are
// silent no-ops that return the unchanged user. Missions, user, and ledger
// persist together; the mutex makes the sequence atomic to in-process
// readers.
func (c *Client) CompleteMission(ctx context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	missions, err := c.loadMissions(ctx)
	if err != nil {
		return nil, err
	}
	user, err := c.loadUser(ctx)
	if err != nil {
		return nil, err
	}

	idx := missionIndex(missions, id)
	if idx < 0 || missions[idx].Completed {
		return user, nil
	}

	missions[idx].Completed = true
	user.TotalPoints += missions[idx].Points
	user.MissionsDone++

	entry := model.Transaction{
		ID:    c.newID(),
		Title: missions[idx].Title,
		Date:  c.now(),
		Delta: missions[idx].Points,
	}

	if err := c.persistMissionChange(ctx, missions, user, entry); err != nil {
		return nil, err
	}
	c.logger.Info("mission completed", "mission_id", id, "points", entry.Delta)
	return user, nil
}

// UncompleteMission reverses a completion. The original ledger entry stays;
// a negative reversal entry is appended instead, so the ledger remains a
// full audit trail.
func (c *Client) UncompleteMission(ctx context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	missions, err := c.loadMissions(ctx)
	if err != nil {
		return nil, err
	}
	user, err := c.loadUser(ctx)
	if err != nil {
		return nil, err
	}

	idx := missionIndex(missions, id)
	if idx < 0 || !missions[idx].Completed {
		return user, nil
	}

	missions[idx].Completed = false
	user.TotalPoints -= missions[idx].Points
	user.MissionsDone--

	entry := model.Transaction{
		ID:    c.newID(),
		Title: "Uncompleted: " + missions[idx].Title,
		Date:  c.now(),
		Delta: -missions[idx].Points,
	}

	if err := c.persistMissionChange(ctx, missions, user, entry); err != nil {
		return nil, err
	}
	c.logger.Info("mission uncompleted", "mission_id", id, "points", entry.Delta)
	return user, nil
}

// RedeemReward debits the reward's cost and appends a negative ledger entry.
// The affordability check runs against the authoritative balance here, never
// against whatever optimistic value the caller holds. An unknown reward id
// is a silent no-op.
func (c *Client) RedeemReward(ctx context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rewards []model.Reward
	if err := c.load(ctx, localstore.BucketRewards, &rewards); err != nil {
		return nil, err
	}
	user, err := c.loadUser(ctx)
	if err != nil {
		return nil, err
	}

	var reward *model.Reward
	for i := range rewards {
		if rewards[i].ID == id {
			reward = &rewards[i]
			break
		}
	}
	if reward == nil {
		return user, nil
	}

	if user.TotalPoints < reward.CostPoints {
		return nil, fmt.Errorf("%w: %q costs %d, balance is %d",
			ErrInsufficientPoints, reward.Title, reward.CostPoints, user.TotalPoints)
	}

	user.TotalPoints -= reward.CostPoints

	transactions, err := c.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	transactions = prepend(transactions, model.Transaction{
		ID:    c.newID(),
		Title: reward.Title,
		Date:  c.now(),
		Delta: -reward.CostPoints,
	})

	if err := c.save(ctx, localstore.BucketUser, user); err != nil {
		return nil, err
	}
	if err := c.save(ctx, localstore.BucketTransactions, transactions); err != nil {
		return nil, err
	}
	c.logger.Info("reward redeemed", "reward_id", id, "cost", reward.CostPoints)
	return user, nil
}

// --- Internals ---

func (c *Client) persistMissionChange(ctx context.Context, missions []model.DailyMission, user *model.User, entry model.Transaction) error {
	transactions, err := c.loadTransactions(ctx)
	if err != nil {
		return err
	}
	transactions = prepend(transactions, entry)

	if err := c.save(ctx, localstore.BucketMissions, missions); err != nil {
		return err
	}
	if err := c.save(ctx, localstore.BucketUser, user); err != nil {
		return err
	}
	return c.save(ctx, localstore.BucketTransactions, transactions)
}

func (c *Client) loadUser(ctx context.Context) (*model.User, error) {
	var user *model.User
	if err := c.load(ctx, localstore.BucketUser, &user); err != nil {
		return nil, err
	}
	if user == nil {
		seed := model.SeedUser()
		user = &seed
	}
	return user, nil
}

func (c *Client) loadMissions(ctx context.Context) ([]model.DailyMission, error) {
	var missions []model.DailyMission
	if err := c.load(ctx, localstore.BucketMissions, &missions); err != nil {
		return nil, err
	}
	if missions == nil {
		missions = model.SeedMissions()
	}
	return missions, nil
}

func (c *Client) loadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	if err := c.load(ctx, localstore.BucketTransactions, &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = model.SeedTransactions()
	}
	return transactions, nil
}

func (c *Client) load(ctx context.Context, b localstore.Bucket, out any) error {
	data, ok, err := c.store.Get(ctx, b)
	if err != nil {
		return fmt.Errorf("load %s: %w", b, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", b, err)
	}
	return nil
}

func (c *Client) save(ctx context.Context, b localstore.Bucket, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", b, err)
	}
	if err := c.store.Set(ctx, b, data); err != nil {
		return fmt.Errorf("save %s: %w", b, err)
	}
	return nil
}

func missionIndex(missions []model.DailyMission, id string) int {
	for i := range missions {
		if missions[i].ID == id {
			return i
		}
	}
	return -1
}

// prepend keeps the ledger newest-first.
func prepend(ledger []model.Transaction, entry model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(ledger)+1)
	out = append(out, entry)
	return append(out, ledger...)
}
