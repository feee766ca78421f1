// Package simulate provides metric sources for the tracker. The Source
// interface is the seam where a real sensor or cloud health API would
// plug in; the Simulated source stands in for one with a pseudo-random
// walk, and Static serves fixtures for tests and demos.
package simulate

import (
	"context"

	"github.com/dukerupert/tookish/internal/model"
)

// Sample is one reading of a member's current-day metrics.
type Sample struct {
	Steps            int
	Calories         int
	DistanceKM       float64
	RestingHeartRate int
	SleepHours       float64
	WorkoutMinutes   int
	MoodScore        int
	WaterLiters      float64
}

// Source produces the current day's readings for a member. Readings are
// cumulative for the day, so each sample replaces the previous one.
type Source interface {
	Sample(ctx context.Context, member model.FamilyMember) (Sample, error)
}

// Apply writes a sample over a daily metrics row.
func Apply(m *model.DailyMetrics, s Sample) {
	m.Steps = s.Steps
	m.Calories = s.Calories
	m.DistanceKM = s.DistanceKM
	m.RestingHeartRate = s.RestingHeartRate
	m.SleepHours = s.SleepHours
	m.WorkoutMinutes = s.WorkoutMinutes
	m.MoodScore = s.MoodScore
	m.WaterLiters = s.WaterLiters
}
