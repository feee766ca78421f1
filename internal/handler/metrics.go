package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

type MetricsHandler struct {
	members *store.MemberStore
	metrics *store.MetricStore
	journal *store.SyncStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewMetricsHandler(members *store.MemberStore, metrics *store.MetricStore, journal *store.SyncStore, hub *websocket.Hub, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{members: members, metrics: metrics, journal: journal, hub: hub, logger: logger}
}

func (h *MetricsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Today returns the member's readings for the current day, or an empty
// row when nothing has been recorded yet.
func (h *MetricsHandler) Today(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	today := time.Now().Format(health.DateFormat)
	m, err := h.metrics.GetByDate(member.ID, today)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get metrics"})
		return
	}
	if m == nil {
		m = &model.DailyMetrics{MemberID: member.ID, Date: today}
	}
	writeJSON(w, http.StatusOK, m)
}

// History returns the member's daily rows between from and to, both
// "2006-01-02", defaulting to the last 30 days.
func (h *MetricsHandler) History(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	now := time.Now()
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = now.AddDate(0, 0, -30).Format(health.DateFormat)
	}
	if to == "" {
		to = now.Format(health.DateFormat)
	}
	if !validDate(from) || !validDate(to) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
		return
	}

	history, err := h.metrics.ListRange(member.ID, from, to)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get history"})
		return
	}
	if history == nil {
		history = []model.DailyMetrics{}
	}
	writeJSON(w, http.StatusOK, history)
}

// Rollup returns aggregated counters for the member over a date range.
func (h *MetricsHandler) Rollup(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	now := time.Now()
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = now.AddDate(0, 0, -7).Format(health.DateFormat)
	}
	if to == "" {
		to = now.Format(health.DateFormat)
	}
	if !validDate(from) || !validDate(to) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
		return
	}

	rollup, err := h.metrics.Rollup(member.ID, from, to)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to aggregate metrics"})
		return
	}
	writeJSON(w, http.StatusOK, rollup)
}

// Record writes a full day of readings by hand, for days a device
// missed or for mood and water which have no sensor.
func (h *MetricsHandler) Record(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Date             string  `json:"date"`
		Steps            int     `json:"steps"`
		Calories         int     `json:"calories"`
		DistanceKM       float64 `json:"distance_km"`
		RestingHeartRate int     `json:"resting_heart_rate"`
		SleepHours       float64 `json:"sleep_hours"`
		WorkoutMinutes   int     `json:"workout_minutes"`
		MoodScore        int     `json:"mood_score"`
		WaterLiters      float64 `json:"water_liters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Date == "" {
		req.Date = time.Now().Format(health.DateFormat)
	}
	if !validDate(req.Date) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	if req.Steps < 0 || req.Calories < 0 || req.DistanceKM < 0 || req.SleepHours < 0 ||
		req.WorkoutMinutes < 0 || req.WaterLiters < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "readings must not be negative"})
		return
	}
	if req.MoodScore < 0 || req.MoodScore > 10 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mood_score must be between 0 and 10"})
		return
	}

	saved, err := h.metrics.Upsert(model.DailyMetrics{
		MemberID:         member.ID,
		Date:             req.Date,
		Steps:            req.Steps,
		Calories:         req.Calories,
		DistanceKM:       req.DistanceKM,
		RestingHeartRate: req.RestingHeartRate,
		SleepHours:       req.SleepHours,
		WorkoutMinutes:   req.WorkoutMinutes,
		MoodScore:        req.MoodScore,
		WaterLiters:      req.WaterLiters,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save metrics"})
		return
	}

	if h.journal != nil {
		payload, err := json.Marshal(saved)
		if err != nil {
			h.logger.Warn("marshal metrics for sync", "error", err)
		} else if _, err := h.journal.Enqueue("daily_metrics", saved.ID, string(payload)); err != nil {
			h.logger.Warn("enqueue sync record", "error", err)
		}
	}

	h.broadcast(websocket.NewMemberMessage("metrics", "updated", saved.ID, member.ID, nil))
	writeJSON(w, http.StatusOK, saved)
}

func (h *MetricsHandler) loadMember(w http.ResponseWriter, r *http.Request) (*model.FamilyMember, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family member"})
		return nil, false
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "family member not found"})
		return nil, false
	}
	return member, true
}

func validDate(s string) bool {
	_, err := time.Parse(health.DateFormat, s)
	return err == nil
}
