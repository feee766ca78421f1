package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/tookish/internal/model"
)

type MetricStore struct {
	db *sql.DB
}

func NewMetricStore(db *sql.DB) *MetricStore {
	return &MetricStore{db: db}
}

const metricColumns = "id, member_id, date, steps, calories, distance_km, resting_heart_rate, sleep_hours, workout_minutes, mood_score, water_liters, updated_at"

func scanMetrics(row interface{ Scan(...any) error }) (*model.DailyMetrics, error) {
	var m model.DailyMetrics
	err := row.Scan(&m.ID, &m.MemberID, &m.Date, &m.Steps, &m.Calories, &m.DistanceKM,
		&m.RestingHeartRate, &m.SleepHours, &m.WorkoutMinutes, &m.MoodScore, &m.WaterLiters, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert writes the full metric row for a member's day, replacing any
// previous values for that day.
func (s *MetricStore) Upsert(m model.DailyMetrics) (*model.DailyMetrics, error) {
	_, err := s.db.Exec(`
		INSERT INTO daily_metrics (member_id, date, steps, calories, distance_km, resting_heart_rate, sleep_hours, workout_minutes, mood_score, water_liters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(member_id, date) DO UPDATE SET
			steps = excluded.steps,
			calories = excluded.calories,
			distance_km = excluded.distance_km,
			resting_heart_rate = excluded.resting_heart_rate,
			sleep_hours = excluded.sleep_hours,
			workout_minutes = excluded.workout_minutes,
			mood_score = excluded.mood_score,
			water_liters = excluded.water_liters,
			updated_at = CURRENT_TIMESTAMP`,
		m.MemberID, m.Date, m.Steps, m.Calories, m.DistanceKM, m.RestingHeartRate,
		m.SleepHours, m.WorkoutMinutes, m.MoodScore, m.WaterLiters,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert daily metrics: %w", err)
	}
	return s.GetByDate(m.MemberID, m.Date)
}

func (s *MetricStore) GetByDate(memberID int64, date string) (*model.DailyMetrics, error) {
	m, err := scanMetrics(s.db.QueryRow(
		"SELECT "+metricColumns+" FROM daily_metrics WHERE member_id = ? AND date = ?",
		memberID, date,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query daily metrics: %w", err)
	}
	return m, nil
}

// ListRange returns a member's rows with from <= date <= to, oldest first.
func (s *MetricStore) ListRange(memberID int64, from, to string) ([]model.DailyMetrics, error) {
	rows, err := s.db.Query(
		"SELECT "+metricColumns+" FROM daily_metrics WHERE member_id = ? AND date >= ? AND date <= ? ORDER BY date",
		memberID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query metric range: %w", err)
	}
	defer rows.Close()

	var metrics []model.DailyMetrics
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily metrics: %w", err)
		}
		metrics = append(metrics, *m)
	}
	return metrics, rows.Err()
}

// Rollup aggregates a member's counters over a date range.
func (s *MetricStore) Rollup(memberID int64, from, to string) (*model.MetricRollup, error) {
	var r model.MetricRollup
	r.MemberID = memberID
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(steps), 0), COALESCE(SUM(calories), 0),
		       COALESCE(SUM(distance_km), 0), COALESCE(SUM(workout_minutes), 0),
		       COALESCE(AVG(sleep_hours), 0)
		FROM daily_metrics WHERE member_id = ? AND date >= ? AND date <= ?`,
		memberID, from, to,
	).Scan(&r.Days, &r.Steps, &r.Calories, &r.DistanceKM, &r.WorkoutMinutes, &r.AvgSleepHours)
	if err != nil {
		return nil, fmt.Errorf("rollup metrics: %w", err)
	}
	return &r, nil
}

// SumSince returns the total of one additive metric column across all of
// a member's days with date >= from. Used for challenge progress.
func (s *MetricStore) SumSince(memberID int64, metric, from string) (float64, error) {
	var column string
	switch metric {
	case "steps":
		column = "steps"
	case "calories":
		column = "calories"
	case "distance":
		column = "distance_km"
	case "workout":
		column = "workout_minutes"
	default:
		return 0, fmt.Errorf("unknown metric %q", metric)
	}

	var total float64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM("+column+"), 0) FROM daily_metrics WHERE member_id = ? AND date >= ?",
		memberID, from,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum %s: %w", metric, err)
	}
	return total, nil
}
