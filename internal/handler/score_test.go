package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
)

func TestScoreGet(t *testing.T) {
	db := setupTestDB(t)
	ms := store.NewMemberStore(db)
	mts := store.NewMetricStore(db)
	h := NewScoreHandler(ms, mts)

	member, _ := ms.Create("Sam", "son", "#10B981", "🥕")
	today := time.Now().Format(health.DateFormat)
	mts.Upsert(model.DailyMetrics{
		MemberID: member.ID, Date: today,
		Steps: 11000, RestingHeartRate: 70, SleepHours: 7.5,
		WorkoutMinutes: 35, MoodScore: 9, WaterLiters: 2.6,
	})

	rec := request(t, "GET /api/members/{id}/score", h.Get, http.MethodGet,
		"/api/members/"+itoa(member.ID)+"/score", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Score     int              `json:"score"`
		Breakdown health.SubScores `json:"breakdown"`
		Streak    int              `json:"streak"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score != 94 {
		t.Errorf("score = %d, want 94", resp.Score)
	}
	if resp.Streak != 1 {
		t.Errorf("streak = %d, want 1", resp.Streak)
	}
}

func TestScoreGetNoMetrics(t *testing.T) {
	db := setupTestDB(t)
	ms := store.NewMemberStore(db)
	h := NewScoreHandler(ms, store.NewMetricStore(db))

	member, _ := ms.Create("Merry", "son", "#6366F1", "🌲")

	rec := request(t, "GET /api/members/{id}/score", h.Get, http.MethodGet,
		"/api/members/"+itoa(member.ID)+"/score", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Score int `json:"score"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Score != 0 {
		t.Errorf("score = %d, want 0 for an empty day", resp.Score)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	db := setupTestDB(t)
	ms := store.NewMemberStore(db)
	mts := store.NewMetricStore(db)
	h := NewLeaderboardHandler(ms, mts, store.NewBadgeStore(db))

	strong, _ := ms.Create("Sam", "son", "#10B981", "🥕")
	weak, _ := ms.Create("Pippin", "son", "#F59E0B", "🍄")

	today := time.Now().Format(health.DateFormat)
	mts.Upsert(model.DailyMetrics{MemberID: strong.ID, Date: today, Steps: 12000, SleepHours: 8, MoodScore: 9})
	mts.Upsert(model.DailyMetrics{MemberID: weak.ID, Date: today, Steps: 3000})

	rec := request(t, "GET /api/leaderboard", h.Get, http.MethodGet, "/api/leaderboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var rows []model.LeaderboardRow
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Member.ID != strong.ID {
		t.Errorf("leader = %d, want %d", rows[0].Member.ID, strong.ID)
	}
	if rows[0].Score <= rows[1].Score {
		t.Errorf("scores not descending: %d then %d", rows[0].Score, rows[1].Score)
	}
}
