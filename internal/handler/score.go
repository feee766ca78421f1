package handler

import (
	"net/http"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
)

type ScoreHandler struct {
	members *store.MemberStore
	metrics *store.MetricStore
}

func NewScoreHandler(members *store.MemberStore, metrics *store.MetricStore) *ScoreHandler {
	return &ScoreHandler{members: members, metrics: metrics}
}

// Get returns the member's composite health score for today with the
// per-category breakdown, goal progress, and current streak.
func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family member"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "family member not found"})
		return
	}

	now := time.Now()
	today := now.Format(health.DateFormat)

	m, err := h.metrics.GetByDate(member.ID, today)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get metrics"})
		return
	}
	if m == nil {
		m = &model.DailyMetrics{MemberID: member.ID, Date: today}
	}

	streak, err := memberStreak(h.metrics, *member, now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute streak"})
		return
	}

	in := health.InputFromMetrics(*m)
	writeJSON(w, http.StatusOK, map[string]any{
		"member_id":    member.ID,
		"date":         today,
		"score":        health.Score(in),
		"breakdown":    health.Breakdown(in),
		"streak":       streak,
		"goal_percent": health.CompletionPercent(float64(m.Steps), float64(member.StepGoal)),
	})
}

// memberStreak loads enough history to count the member's current
// step-goal streak.
func memberStreak(metrics *store.MetricStore, member model.FamilyMember, now time.Time) (int, error) {
	from := now.AddDate(0, 0, -90).Format(health.DateFormat)
	history, err := metrics.ListRange(member.ID, from, now.Format(health.DateFormat))
	if err != nil {
		return 0, err
	}
	return health.Streak(history, member.StepGoal, now), nil
}
