package model

// User is the canonical profile record. There is exactly one per device;
// it is created on first initialization and only mutated by the domain API.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	MemberSince     string `json:"member_since"`
	TotalPoints     int    `json:"total_points"`
	DayStreak       int    `json:"day_streak"`
	MissionsDone    int    `json:"missions_done"`
	DailyPointsGoal int    `json:"daily_points_goal"`
}
