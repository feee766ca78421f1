package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

type WorkoutHandler struct {
	members  *store.MemberStore
	workouts *store.WorkoutStore
	journal  *store.SyncStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewWorkoutHandler(members *store.MemberStore, workouts *store.WorkoutStore, journal *store.SyncStore, hub *websocket.Hub, logger *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{members: members, workouts: workouts, journal: journal, hub: hub, logger: logger}
}

func (h *WorkoutHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID        int64    `json:"member_id"`
		Name            string   `json:"name"`
		Activity        string   `json:"activity"`
		StartedAt       string   `json:"started_at"`
		DurationMinutes int      `json:"duration_minutes"`
		Calories        int      `json:"calories"`
		DistanceKM      *float64 `json:"distance_km"`
		AvgHeartRate    int      `json:"avg_heart_rate"`
		MaxHeartRate    int      `json:"max_heart_rate"`
		Notes           string   `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.DurationMinutes <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "duration_minutes must be positive"})
		return
	}
	if req.Activity == "" {
		req.Activity = "other"
	}

	startedAt := time.Now()
	if req.StartedAt != "" {
		var err error
		startedAt, err = time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "started_at must be RFC 3339"})
			return
		}
	}

	member, err := h.members.GetByID(req.MemberID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family member"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "family member not found"})
		return
	}

	workout, err := h.workouts.Create(model.Workout{
		MemberID:        req.MemberID,
		Name:            req.Name,
		Activity:        req.Activity,
		StartedAt:       startedAt,
		DurationMinutes: req.DurationMinutes,
		Calories:        req.Calories,
		DistanceKM:      req.DistanceKM,
		AvgHeartRate:    req.AvgHeartRate,
		MaxHeartRate:    req.MaxHeartRate,
		Notes:           req.Notes,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create workout"})
		return
	}

	if h.journal != nil {
		payload, err := json.Marshal(workout)
		if err != nil {
			h.logger.Warn("marshal workout for sync", "error", err)
		} else if _, err := h.journal.Enqueue("workout", workout.ID, string(payload)); err != nil {
			h.logger.Warn("enqueue sync record", "error", err)
		}
	}

	h.broadcast(websocket.NewMemberMessage("workout", "created", workout.ID, workout.MemberID, nil))
	writeJSON(w, http.StatusCreated, workout)
}

// ListByMember returns the member's recent workouts, newest first. The
// limit query parameter caps the result.
func (h *WorkoutHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
	}

	workouts, err := h.workouts.ListByMember(id, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list workouts"})
		return
	}
	if workouts == nil {
		workouts = []model.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

// Get returns a workout with its heart-rate trace.
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.loadWorkout(w, r)
	if !ok {
		return
	}

	samples, err := h.workouts.Samples(workout.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get samples"})
		return
	}
	if samples == nil {
		samples = []model.HeartRateSample{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workout": workout,
		"samples": samples,
	})
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.loadWorkout(w, r)
	if !ok {
		return
	}

	if err := h.workouts.Delete(workout.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete workout"})
		return
	}

	h.broadcast(websocket.NewMemberMessage("workout", "deleted", workout.ID, workout.MemberID, nil))
	w.WriteHeader(http.StatusNoContent)
}

// AddSamples appends heart-rate trace points to a workout.
func (h *WorkoutHandler) AddSamples(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.loadWorkout(w, r)
	if !ok {
		return
	}

	var req struct {
		Samples []struct {
			OffsetSeconds int `json:"offset_seconds"`
			BPM           int `json:"bpm"`
		} `json:"samples"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Samples) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "samples are required"})
		return
	}

	samples := make([]model.HeartRateSample, 0, len(req.Samples))
	for _, s := range req.Samples {
		if s.OffsetSeconds < 0 || s.BPM <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "samples need a non-negative offset and positive bpm"})
			return
		}
		samples = append(samples, model.HeartRateSample{
			WorkoutID:     workout.ID,
			OffsetSeconds: s.OffsetSeconds,
			BPM:           s.BPM,
		})
	}

	if err := h.workouts.AddSamples(workout.ID, samples); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add samples"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkoutHandler) loadWorkout(w http.ResponseWriter, r *http.Request) (*model.Workout, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	workout, err := h.workouts.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get workout"})
		return nil, false
	}
	if workout == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return nil, false
	}
	return workout, true
}
