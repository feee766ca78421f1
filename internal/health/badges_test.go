package health

import (
	"testing"
	"time"

	"github.com/dukerupert/tookish/internal/model"
)

var testCatalog = []model.Badge{
	{ID: 1, Name: "10K Steps", Category: model.BadgeCategorySteps, Threshold: 10000},
	{ID: 2, Name: "Calorie Crusher", Category: model.BadgeCategoryCalories, Threshold: 500},
	{ID: 3, Name: "Well Rested", Category: model.BadgeCategorySleep, Threshold: 8},
	{ID: 4, Name: "Week Warrior", Category: model.BadgeCategoryStreak, Threshold: 7},
}

func TestBadgeUnlockAtThreshold(t *testing.T) {
	m := model.DailyMetrics{MemberID: 7, Steps: 12500}
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	earned := EvaluateBadges(m, 0, testCatalog, nil, now)
	if len(earned) != 1 {
		t.Fatalf("expected 1 unlock, got %d", len(earned))
	}
	if earned[0].BadgeID != 1 {
		t.Errorf("badge_id = %d, want 1", earned[0].BadgeID)
	}
	if earned[0].MemberID != 7 {
		t.Errorf("member_id = %d, want 7", earned[0].MemberID)
	}
	if !earned[0].UnlockedAt.Equal(now) {
		t.Errorf("unlocked_at = %v, want %v", earned[0].UnlockedAt, now)
	}
}

func TestBadgeBelowThreshold(t *testing.T) {
	m := model.DailyMetrics{MemberID: 7, Steps: 9999}
	earned := EvaluateBadges(m, 0, testCatalog, nil, time.Now())
	if len(earned) != 0 {
		t.Errorf("expected no unlocks at 9999 steps, got %d", len(earned))
	}
}

func TestBadgeIdempotent(t *testing.T) {
	m := model.DailyMetrics{MemberID: 7, Steps: 12500}
	now := time.Now()

	earned := EvaluateBadges(m, 0, testCatalog, nil, now)
	if len(earned) != 1 {
		t.Fatalf("expected 1 unlock, got %d", len(earned))
	}

	// Second evaluation with the badge already unlocked is a no-op.
	unlocked := map[int64]bool{earned[0].BadgeID: true}
	again := EvaluateBadges(m, 0, testCatalog, unlocked, now)
	if len(again) != 0 {
		t.Errorf("expected no unlocks on re-evaluation, got %d", len(again))
	}
}

func TestBadgeIndependentThresholds(t *testing.T) {
	m := model.DailyMetrics{MemberID: 3, Steps: 15000, Calories: 620, SleepHours: 6}
	earned := EvaluateBadges(m, 0, testCatalog, nil, time.Now())
	if len(earned) != 2 {
		t.Fatalf("expected 2 unlocks (steps + calories), got %d", len(earned))
	}
	if earned[0].BadgeID != 1 || earned[1].BadgeID != 2 {
		t.Errorf("unlocks = [%d, %d], want [1, 2]", earned[0].BadgeID, earned[1].BadgeID)
	}
}

func TestBadgeStreakCategory(t *testing.T) {
	m := model.DailyMetrics{MemberID: 3}

	earned := EvaluateBadges(m, 6, testCatalog, nil, time.Now())
	if len(earned) != 0 {
		t.Errorf("expected no unlock at streak 6, got %d", len(earned))
	}

	earned = EvaluateBadges(m, 7, testCatalog, nil, time.Now())
	if len(earned) != 1 || earned[0].BadgeID != 4 {
		t.Errorf("expected streak badge unlock at streak 7, got %v", earned)
	}
}

func TestBadgeUnknownCategory(t *testing.T) {
	catalog := []model.Badge{{ID: 9, Name: "Mystery", Category: "moonphase", Threshold: 1}}
	m := model.DailyMetrics{Steps: 99999}
	if earned := EvaluateBadges(m, 99, catalog, nil, time.Now()); len(earned) != 0 {
		t.Errorf("unknown category should never unlock, got %v", earned)
	}
}

func TestMetricValue(t *testing.T) {
	m := model.DailyMetrics{
		Steps: 11000, Calories: 480, DistanceKM: 7.2,
		SleepHours: 7.5, WorkoutMinutes: 42,
	}
	cases := []struct {
		category string
		want     float64
	}{
		{model.BadgeCategorySteps, 11000},
		{model.BadgeCategoryCalories, 480},
		{model.BadgeCategoryDistance, 7.2},
		{model.BadgeCategorySleep, 7.5},
		{model.BadgeCategoryWorkout, 42},
		{model.BadgeCategoryStreak, 5},
		{"bogus", 0},
	}
	for _, tc := range cases {
		if got := MetricValue(tc.category, m, 5); got != tc.want {
			t.Errorf("MetricValue(%q) = %v, want %v", tc.category, got, tc.want)
		}
	}
}
