package model

type MilestoneType string

const (
	MilestonePoints     MilestoneType = "points"
	MilestoneStreak     MilestoneType = "streak"
	MilestoneOnboarding MilestoneType = "onboarding"
)

type MilestoneStatus string

const (
	MilestoneLocked     MilestoneStatus = "locked"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// Milestone tracks progress toward a long-running goal.
type Milestone struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Type    MilestoneType   `json:"type"`
	Target  int             `json:"target"`
	Current int             `json:"current"`
	Status  MilestoneStatus `json:"status"`
}
