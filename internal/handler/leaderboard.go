package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
)

type LeaderboardHandler struct {
	members *store.MemberStore
	metrics *store.MetricStore
	badges  *store.BadgeStore
}

func NewLeaderboardHandler(members *store.MemberStore, metrics *store.MetricStore, badges *store.BadgeStore) *LeaderboardHandler {
	return &LeaderboardHandler{members: members, metrics: metrics, badges: badges}
}

// Get returns today's family standings ranked by health score, with
// steps as the tiebreak.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list family members"})
		return
	}

	now := time.Now()
	today := now.Format(health.DateFormat)

	rows := make([]model.LeaderboardRow, 0, len(members))
	for _, member := range members {
		m, err := h.metrics.GetByDate(member.ID, today)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get metrics"})
			return
		}
		if m == nil {
			m = &model.DailyMetrics{MemberID: member.ID, Date: today}
		}

		streak, err := memberStreak(h.metrics, member, now)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute streak"})
			return
		}

		badgeCount, err := h.badges.CountUnlocked(member.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count badges"})
			return
		}

		rows = append(rows, model.LeaderboardRow{
			Member:      member,
			Score:       health.Score(health.InputFromMetrics(*m)),
			Steps:       m.Steps,
			Streak:      streak,
			BadgeCount:  badgeCount,
			GoalPercent: health.CompletionPercent(float64(m.Steps), float64(member.StepGoal)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Steps > rows[j].Steps
	})

	writeJSON(w, http.StatusOK, rows)
}
