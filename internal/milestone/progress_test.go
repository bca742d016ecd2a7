package milestone

import (
	"testing"

	"github.com/upwardia/upwardia/internal/model"
)

func streakMilestones() []model.Milestone {
	return []model.Milestone{
		{ID: "ms1", Title: "7-Day Streak", Type: model.MilestoneStreak, Target: 7},
		{ID: "ms3", Title: "30-Day Streak", Type: model.MilestoneStreak, Target: 30},
		{ID: "ms4", Title: "60-Day Streak", Type: model.MilestoneStreak, Target: 60},
	}
}

func TestEvaluateSeedState(t *testing.T) {
	got := Evaluate(model.SeedMilestones(), model.SeedUser())

	want := map[string]model.MilestoneStatus{
		"ms1": model.MilestoneCompleted,  // 7-day streak at streak 7
		"ms2": model.MilestoneInProgress, // 5,000 points at 2,340
		"ms3": model.MilestoneInProgress, // 30-day streak, next tier
		"ms4": model.MilestoneLocked,     // 60-day streak, gated on 30
	}
	for _, m := range got {
		if m.Status != want[m.ID] {
			t.Errorf("%s status = %s, want %s", m.ID, m.Status, want[m.ID])
		}
	}
}

func TestEvaluateStreakTiers(t *testing.T) {
	tests := []struct {
		name   string
		streak int
		want   [3]model.MilestoneStatus
	}{
		{"fresh start", 0, [3]model.MilestoneStatus{model.MilestoneInProgress, model.MilestoneLocked, model.MilestoneLocked}},
		{"first tier done", 7, [3]model.MilestoneStatus{model.MilestoneCompleted, model.MilestoneInProgress, model.MilestoneLocked}},
		{"second tier done", 30, [3]model.MilestoneStatus{model.MilestoneCompleted, model.MilestoneCompleted, model.MilestoneInProgress}},
		{"all done", 60, [3]model.MilestoneStatus{model.MilestoneCompleted, model.MilestoneCompleted, model.MilestoneCompleted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(streakMilestones(), model.User{DayStreak: tt.streak})
			for i, m := range got {
				if m.Status != tt.want[i] {
					t.Errorf("milestone %s status = %s, want %s", m.ID, m.Status, tt.want[i])
				}
			}
		})
	}
}

func TestEvaluateTracksCurrent(t *testing.T) {
	ms := []model.Milestone{
		{ID: "p", Type: model.MilestonePoints, Target: 5000},
		{ID: "s", Type: model.MilestoneStreak, Target: 30},
		{ID: "o", Type: model.MilestoneOnboarding, Target: 5, Current: 3, Status: model.MilestoneInProgress},
	}
	got := Evaluate(ms, model.User{TotalPoints: 1200, DayStreak: 4})

	if got[0].Current != 1200 {
		t.Errorf("points current = %d, want 1200", got[0].Current)
	}
	if got[1].Current != 4 {
		t.Errorf("streak current = %d, want 4", got[1].Current)
	}
	if got[2].Current != 3 || got[2].Status != model.MilestoneInProgress {
		t.Errorf("onboarding milestone changed: %+v", got[2])
	}
}

func TestEvaluateCapsCurrentAtTarget(t *testing.T) {
	ms := []model.Milestone{{ID: "p", Type: model.MilestonePoints, Target: 100}}
	got := Evaluate(ms, model.User{TotalPoints: 2340})
	if got[0].Current != 100 {
		t.Errorf("current = %d, want capped at 100", got[0].Current)
	}
	if got[0].Status != model.MilestoneCompleted {
		t.Errorf("status = %s, want completed", got[0].Status)
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	in := streakMilestones()
	Evaluate(in, model.User{DayStreak: 60})
	if in[0].Status != "" || in[0].Current != 0 {
		t.Errorf("input slice was mutated: %+v", in[0])
	}
}
