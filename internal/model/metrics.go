package model

import "time"

// DailyMetrics is one member's readings for one calendar day. Date is a
// local "2006-01-02" string so SQLite range queries sort correctly.
type DailyMetrics struct {
	ID               int64     `json:"id"`
	MemberID         int64     `json:"member_id"`
	Date             string    `json:"date"`
	Steps            int       `json:"steps"`
	Calories         int       `json:"calories"`
	DistanceKM       float64   `json:"distance_km"`
	RestingHeartRate int       `json:"resting_heart_rate"`
	SleepHours       float64   `json:"sleep_hours"`
	WorkoutMinutes   int       `json:"workout_minutes"`
	MoodScore        int       `json:"mood_score"`
	WaterLiters      float64   `json:"water_liters"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MetricRollup aggregates a member's counters over a date range.
type MetricRollup struct {
	MemberID       int64   `json:"member_id"`
	Days           int     `json:"days"`
	Steps          int     `json:"steps"`
	Calories       int     `json:"calories"`
	DistanceKM     float64 `json:"distance_km"`
	WorkoutMinutes int     `json:"workout_minutes"`
	AvgSleepHours  float64 `json:"avg_sleep_hours"`
}
