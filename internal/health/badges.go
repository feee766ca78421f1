package health

import (
	"time"

	"github.com/dukerupert/tookish/internal/model"
)

// MetricValue returns the member's reading relevant to a badge category.
// Unknown categories report 0 so they can never unlock.
func MetricValue(category string, m model.DailyMetrics, streak int) float64 {
	switch category {
	case model.BadgeCategorySteps:
		return float64(m.Steps)
	case model.BadgeCategoryCalories:
		return float64(m.Calories)
	case model.BadgeCategoryDistance:
		return m.DistanceKM
	case model.BadgeCategorySleep:
		return m.SleepHours
	case model.BadgeCategoryWorkout:
		return float64(m.WorkoutMinutes)
	case model.BadgeCategoryStreak:
		return float64(streak)
	default:
		return 0
	}
}

// EvaluateBadges returns the catalog badges newly earned by the given
// readings: threshold met, and not already in unlocked. Re-evaluating
// after an unlock is a no-op for that badge. Thresholds are independent;
// order of the result follows catalog order.
func EvaluateBadges(m model.DailyMetrics, streak int, catalog []model.Badge, unlocked map[int64]bool, now time.Time) []model.BadgeUnlock {
	var earned []model.BadgeUnlock
	for _, b := range catalog {
		if unlocked[b.ID] {
			continue
		}
		if b.Threshold <= 0 {
			continue
		}
		if MetricValue(b.Category, m, streak) >= b.Threshold {
			earned = append(earned, model.BadgeUnlock{
				BadgeID:    b.ID,
				MemberID:   m.MemberID,
				UnlockedAt: now,
			})
		}
	}
	return earned
}
