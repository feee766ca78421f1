package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/tookish/internal/model"
)

type WorkoutStore struct {
	db *sql.DB
}

func NewWorkoutStore(db *sql.DB) *WorkoutStore {
	return &WorkoutStore{db: db}
}

const workoutColumns = "id, member_id, name, activity, started_at, duration_minutes, calories, distance_km, avg_heart_rate, max_heart_rate, notes, created_at"

func scanWorkout(row interface{ Scan(...any) error }) (*model.Workout, error) {
	var w model.Workout
	err := row.Scan(&w.ID, &w.MemberID, &w.Name, &w.Activity, &w.StartedAt, &w.DurationMinutes,
		&w.Calories, &w.DistanceKM, &w.AvgHeartRate, &w.MaxHeartRate, &w.Notes, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WorkoutStore) Create(w model.Workout) (*model.Workout, error) {
	result, err := s.db.Exec(`
		INSERT INTO workouts (member_id, name, activity, started_at, duration_minutes, calories, distance_km, avg_heart_rate, max_heart_rate, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.MemberID, w.Name, w.Activity, w.StartedAt.UTC(), w.DurationMinutes, w.Calories,
		w.DistanceKM, w.AvgHeartRate, w.MaxHeartRate, w.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *WorkoutStore) GetByID(id int64) (*model.Workout, error) {
	w, err := scanWorkout(s.db.QueryRow("SELECT "+workoutColumns+" FROM workouts WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query workout: %w", err)
	}
	return w, nil
}

// ListByMember returns the member's workouts, newest first.
func (s *WorkoutStore) ListByMember(memberID int64, limit int) ([]model.Workout, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		"SELECT "+workoutColumns+" FROM workouts WHERE member_id = ? ORDER BY started_at DESC LIMIT ?",
		memberID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []model.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func (s *WorkoutStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// AddSamples appends heart-rate trace points in one transaction.
func (s *WorkoutStore) AddSamples(workoutID int64, samples []model.HeartRateSample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO heart_rate_samples (workout_id, offset_seconds, bpm) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, sm := range samples {
		if _, err := stmt.Exec(workoutID, sm.OffsetSeconds, sm.BPM); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	return tx.Commit()
}

func (s *WorkoutStore) Samples(workoutID int64) ([]model.HeartRateSample, error) {
	rows, err := s.db.Query(
		"SELECT id, workout_id, offset_seconds, bpm FROM heart_rate_samples WHERE workout_id = ? ORDER BY offset_seconds",
		workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []model.HeartRateSample
	for rows.Next() {
		var sm model.HeartRateSample
		if err := rows.Scan(&sm.ID, &sm.WorkoutID, &sm.OffsetSeconds, &sm.BPM); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}
