// Package milestone derives milestone progress from the profile. It never
// writes to the store; milestones are read-only in this client.
package milestone

import (
	"sort"

	"github.com/upwardia/upwardia/internal/model"
)

// Evaluate returns a copy of ms with Current and Status re-derived from the
// user's profile. Points milestones track total points, streak milestones
// track the day streak, onboarding milestones keep their stored progress.
//
// Within a type, a milestone stays locked until every smaller-target
// milestone of that type is completed; the next tier up is in progress.
func Evaluate(ms []model.Milestone, u model.User) []model.Milestone {
	out := make([]model.Milestone, len(ms))
	copy(out, ms)

	for i := range out {
		switch out[i].Type {
		case model.MilestonePoints:
			out[i].Current = u.TotalPoints
		case model.MilestoneStreak:
			out[i].Current = u.DayStreak
		}
		if out[i].Current > out[i].Target {
			out[i].Current = out[i].Target
		}
	}

	// Order indices per type by target so tier gating sees smaller targets
	// first without reordering the caller's slice.
	byType := make(map[model.MilestoneType][]int)
	for i := range out {
		byType[out[i].Type] = append(byType[out[i].Type], i)
	}

	for _, idxs := range byType {
		sort.Slice(idxs, func(a, b int) bool { return out[idxs[a]].Target < out[idxs[b]].Target })

		lowerIncomplete := false
		for _, i := range idxs {
			switch {
			case out[i].Current >= out[i].Target:
				out[i].Status = model.MilestoneCompleted
			case lowerIncomplete:
				out[i].Status = model.MilestoneLocked
			default:
				out[i].Status = model.MilestoneInProgress
			}
			if out[i].Status != model.MilestoneCompleted {
				lowerIncomplete = true
			}
		}
	}

	return out
}
