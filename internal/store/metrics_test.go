package store

import (
	"testing"

	"github.com/dukerupert/tookish/internal/model"
)

func TestMetricsUpsert(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	mts := NewMetricStore(db)

	member, _ := ms.Create("Sam", "father", "#3B82F6", "🧔")

	first, err := mts.Upsert(model.DailyMetrics{
		MemberID: member.ID, Date: "2026-03-10",
		Steps: 4200, Calories: 180, DistanceKM: 3.1,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.Steps != 4200 {
		t.Errorf("steps = %d, want 4200", first.Steps)
	}

	// Second upsert for the same day replaces, not duplicates.
	second, err := mts.Upsert(model.DailyMetrics{
		MemberID: member.ID, Date: "2026-03-10",
		Steps: 11000, Calories: 520, DistanceKM: 8.4, SleepHours: 7.5,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Steps != 11000 || second.SleepHours != 7.5 {
		t.Errorf("second = %+v", second)
	}
}

func TestMetricsGetMissing(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	mts := NewMetricStore(db)

	member, _ := ms.Create("Sam", "father", "#3B82F6", "🧔")

	got, err := mts.GetByDate(member.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing day")
	}
}

func TestMetricsRangeAndRollup(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	mts := NewMetricStore(db)

	member, _ := ms.Create("Sam", "father", "#3B82F6", "🧔")

	days := []model.DailyMetrics{
		{MemberID: member.ID, Date: "2026-03-08", Steps: 8000, Calories: 300, DistanceKM: 5.5, SleepHours: 7, WorkoutMinutes: 20},
		{MemberID: member.ID, Date: "2026-03-09", Steps: 10000, Calories: 450, DistanceKM: 7.2, SleepHours: 8, WorkoutMinutes: 30},
		{MemberID: member.ID, Date: "2026-03-10", Steps: 12000, Calories: 500, DistanceKM: 9.0, SleepHours: 6, WorkoutMinutes: 45},
	}
	for _, d := range days {
		if _, err := mts.Upsert(d); err != nil {
			t.Fatalf("upsert %s: %v", d.Date, err)
		}
	}

	rng, err := mts.ListRange(member.ID, "2026-03-09", "2026-03-10")
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rng) != 2 {
		t.Fatalf("expected 2 days, got %d", len(rng))
	}
	if rng[0].Date != "2026-03-09" {
		t.Errorf("range not ordered: first = %s", rng[0].Date)
	}

	rollup, err := mts.Rollup(member.ID, "2026-03-08", "2026-03-10")
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if rollup.Days != 3 {
		t.Errorf("days = %d, want 3", rollup.Days)
	}
	if rollup.Steps != 30000 {
		t.Errorf("steps = %d, want 30000", rollup.Steps)
	}
	if rollup.WorkoutMinutes != 95 {
		t.Errorf("workout_minutes = %d, want 95", rollup.WorkoutMinutes)
	}
	if rollup.AvgSleepHours != 7 {
		t.Errorf("avg_sleep = %v, want 7", rollup.AvgSleepHours)
	}
}

func TestMetricsSumSince(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	mts := NewMetricStore(db)

	member, _ := ms.Create("Sam", "father", "#3B82F6", "🧔")
	mts.Upsert(model.DailyMetrics{MemberID: member.ID, Date: "2026-03-01", Steps: 5000})
	mts.Upsert(model.DailyMetrics{MemberID: member.ID, Date: "2026-03-09", Steps: 10000, DistanceKM: 7.5})
	mts.Upsert(model.DailyMetrics{MemberID: member.ID, Date: "2026-03-10", Steps: 12000, DistanceKM: 9.5})

	total, err := mts.SumSince(member.ID, "steps", "2026-03-09")
	if err != nil {
		t.Fatalf("sum since: %v", err)
	}
	if total != 22000 {
		t.Errorf("steps since = %v, want 22000", total)
	}

	dist, err := mts.SumSince(member.ID, "distance", "2026-03-01")
	if err != nil {
		t.Fatalf("sum distance: %v", err)
	}
	if dist != 17 {
		t.Errorf("distance since = %v, want 17", dist)
	}

	if _, err := mts.SumSince(member.ID, "moonphase", "2026-03-01"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
