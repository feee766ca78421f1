package model

import "time"

// Workout is one recorded exercise session. DistanceKM is nil for
// activities where distance makes no sense.
type Workout struct {
	ID              int64     `json:"id"`
	MemberID        int64     `json:"member_id"`
	Name            string    `json:"name"`
	Activity        string    `json:"activity"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Calories        int       `json:"calories"`
	DistanceKM      *float64  `json:"distance_km,omitempty"`
	AvgHeartRate    int       `json:"avg_heart_rate"`
	MaxHeartRate    int       `json:"max_heart_rate"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// HeartRateSample is one point of a workout's heart-rate trace, offset
// from the workout start.
type HeartRateSample struct {
	ID            int64 `json:"id"`
	WorkoutID     int64 `json:"workout_id"`
	OffsetSeconds int   `json:"offset_seconds"`
	BPM           int   `json:"bpm"`
}
