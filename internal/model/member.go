// Package model defines the persisted types shared by the stores,
// the domain packages, and the HTTP handlers.
package model

import "time"

// FamilyMember is one person on the household dashboard. The PIN hash
// never leaves the store; HasPIN is all the API reveals.
type FamilyMember struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Color        string    `json:"color"`
	AvatarEmoji  string    `json:"avatar_emoji"`
	HasPIN       bool      `json:"has_pin"`
	StepGoal     int       `json:"step_goal"`
	CalorieGoal  int       `json:"calorie_goal"`
	SleepGoal    float64   `json:"sleep_goal"`
	WaterGoal    float64   `json:"water_goal"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LeaderboardRow is one member's entry on the family leaderboard.
type LeaderboardRow struct {
	Member      FamilyMember `json:"member"`
	Score       int          `json:"score"`
	Steps       int          `json:"steps"`
	Streak      int          `json:"streak"`
	BadgeCount  int          `json:"badge_count"`
	GoalPercent float64      `json:"goal_percent"`
}
