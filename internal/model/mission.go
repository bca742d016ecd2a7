package model

type MissionCategory string

const (
	CategoryHealth MissionCategory = "Health"
	CategoryMoney  MissionCategory = "Money"
	CategoryMind   MissionCategory = "Mind"
	CategoryFamily MissionCategory = "Family"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Mission is an immutable catalog entry.
type Mission struct {
	ID          string          `json:"id"`
	Category    MissionCategory `json:"category"`
	Title       string          `json:"title"`
	DurationMin int             `json:"duration_min"`
	Points      int             `json:"points"`
	Difficulty  Difficulty      `json:"difficulty"`
	Icon        string          `json:"icon"`
}

// DailyMission is a Mission plus per-day completion state.
type DailyMission struct {
	Mission
	Completed    bool `json:"completed"`
	AddedToToday bool `json:"added_to_today,omitempty"`
}
