package model

import "time"

// Seed data written on first launch when a bucket is absent.

func SeedUser() User {
	return User{
		ID:              "u1",
		Name:            "Alex",
		Email:           "alex@example.com",
		MemberSince:     "Jan 2025",
		TotalPoints:     2340,
		DayStreak:       7,
		MissionsDone:    142,
		DailyPointsGoal: 100,
	}
}

func SeedMissions() []DailyMission {
	return []DailyMission{
		{Mission: Mission{ID: "m1", Category: CategoryHealth, Title: "Morning Walk", DurationMin: 15, Points: 50, Difficulty: DifficultyEasy, Icon: "footprints"}, Completed: true},
		{Mission: Mission{ID: "m2", Category: CategoryHealth, Title: "Drink Water", DurationMin: 0, Points: 10, Difficulty: DifficultyEasy, Icon: "droplet"}},
		{Mission: Mission{ID: "m3", Category: CategoryMind, Title: "Meditation", DurationMin: 10, Points: 30, Difficulty: DifficultyMedium, Icon: "brain"}},
		{Mission: Mission{ID: "m4", Category: CategoryMoney, Title: "Check Budget", DurationMin: 5, Points: 20, Difficulty: DifficultyEasy, Icon: "wallet"}},
	}
}

func SeedTransactions() []Transaction {
	return []Transaction{
		{ID: "t1", Title: "Daily Login Bonus", Date: time.Date(2025, 12, 15, 8, 0, 0, 0, time.UTC), Delta: 10},
		{ID: "t2", Title: "Morning Walk", Date: time.Date(2025, 12, 15, 8, 30, 0, 0, time.UTC), Delta: 50},
		{ID: "t3", Title: "Starbucks Gift Card", Date: time.Date(2025, 12, 14, 15, 0, 0, 0, time.UTC), Delta: -500},
	}
}

func SeedRewards() []Reward {
	return []Reward{
		{ID: "r1", Title: "$5 Starbucks Card", Vendor: "Starbucks", CostPoints: 500},
		{ID: "r2", Title: "$10 Amazon Card", Vendor: "Amazon", CostPoints: 1000},
		{ID: "r3", Title: "Premium Feature Unlock", Vendor: "Upwardia", CostPoints: 2000},
	}
}

func SeedMilestones() []Milestone {
	return []Milestone{
		{ID: "ms1", Title: "7-Day Streak", Type: MilestoneStreak, Target: 7, Current: 7, Status: MilestoneCompleted},
		{ID: "ms2", Title: "Earn 5,000 Points", Type: MilestonePoints, Target: 5000, Current: 2340, Status: MilestoneInProgress},
		{ID: "ms3", Title: "30-Day Streak", Type: MilestoneStreak, Target: 30, Current: 7, Status: MilestoneInProgress},
		{ID: "ms4", Title: "60-Day Streak", Type: MilestoneStreak, Target: 60, Current: 7, Status: MilestoneLocked},
	}
}
