package optimistic

import (
	"context"

	"github.com/upwardia/upwardia/internal/api"
	"github.com/upwardia/upwardia/internal/cache"
	"github.com/upwardia/upwardia/internal/model"
)

// Domain mutations, prebuilt for the three point-affecting operations.
// Each updater mirrors what the domain API will do, computed from the
// cached values, and no-ops when the target entity is not cached.

// CompleteMission marks the mission done and credits its points
// speculatively.
func CompleteMission(client *api.Client, id string) Mutation {
	return Mutation{
		Name: "complete_mission",
		Keys: []cache.Key{cache.KeyUser, cache.KeyMissions, cache.KeyTransactions},
		Update: func(current map[cache.Key]any) map[cache.Key]any {
			return applyCompletion(current, id, true)
		},
		Mutate: func(ctx context.Context) (*model.User, error) {
			return client.CompleteMission(ctx, id)
		},
	}
}

// UncompleteMission reverses a completion speculatively.
func UncompleteMission(client *api.Client, id string) Mutation {
	return Mutation{
		Name: "uncomplete_mission",
		Keys: []cache.Key{cache.KeyUser, cache.KeyMissions, cache.KeyTransactions},
		Update: func(current map[cache.Key]any) map[cache.Key]any {
			return applyCompletion(current, id, false)
		},
		Mutate: func(ctx context.Context) (*model.User, error) {
			return client.UncompleteMission(ctx, id)
		},
	}
}

// RedeemReward debits the cost speculatively. Affordability is not checked
// here; the domain API re-validates against the authoritative balance and a
// rejection rolls the debit back.
func RedeemReward(client *api.Client, id string) Mutation {
	return Mutation{
		Name: "redeem_reward",
		// KeyRewards is declared so the updater can read the catalog price.
		Keys: []cache.Key{cache.KeyUser, cache.KeyTransactions, cache.KeyRewards},
		Update: func(current map[cache.Key]any) map[cache.Key]any {
			user, ok := current[cache.KeyUser].(*model.User)
			if !ok {
				return current
			}
			rewards, _ := current[cache.KeyRewards].([]model.Reward)
			reward := findReward(rewards, id)
			if reward == nil {
				return current
			}
			next := *user
			next.TotalPoints -= reward.CostPoints
			return map[cache.Key]any{cache.KeyUser: &next}
		},
		Mutate: func(ctx context.Context) (*model.User, error) {
			return client.RedeemReward(ctx, id)
		},
	}
}

// applyCompletion computes speculative user and mission values for a
// completion flag transition. Missing mission id or a mission already in the
// target state leaves the input unchanged.
func applyCompletion(current map[cache.Key]any, id string, completed bool) map[cache.Key]any {
	missions, ok := current[cache.KeyMissions].([]model.DailyMission)
	if !ok {
		return current
	}

	idx := -1
	for i := range missions {
		if missions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || missions[idx].Completed == completed {
		return current
	}

	nextMissions := make([]model.DailyMission, len(missions))
	copy(nextMissions, missions)
	nextMissions[idx].Completed = completed

	next := map[cache.Key]any{cache.KeyMissions: nextMissions}

	if user, ok := current[cache.KeyUser].(*model.User); ok {
		nextUser := *user
		if completed {
			nextUser.TotalPoints += missions[idx].Points
			nextUser.MissionsDone++
		} else {
			nextUser.TotalPoints -= missions[idx].Points
			nextUser.MissionsDone--
		}
		next[cache.KeyUser] = &nextUser
	}
	return next
}

func findReward(rewards []model.Reward, id string) *model.Reward {
	for i := range rewards {
		if rewards[i].ID == id {
			return &rewards[i]
		}
	}
	return nil
}
