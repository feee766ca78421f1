package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

var challengeMetrics = map[string]bool{
	"steps":    true,
	"calories": true,
	"distance": true,
	"workout":  true,
}

type ChallengeHandler struct {
	members    *store.MemberStore
	challenges *store.ChallengeStore
	hub        *websocket.Hub
}

func NewChallengeHandler(members *store.MemberStore, challenges *store.ChallengeStore, hub *websocket.Hub) *ChallengeHandler {
	return &ChallengeHandler{members: members, challenges: challenges, hub: hub}
}

func (h *ChallengeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		challenges []model.Challenge
		err        error
	)
	if r.URL.Query().Get("active") == "true" {
		challenges, err = h.challenges.ListActive(time.Now())
	} else {
		challenges, err = h.challenges.List()
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list challenges"})
		return
	}
	if challenges == nil {
		challenges = []model.Challenge{}
	}
	writeJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Metric      string  `json:"metric"`
		Target      float64 `json:"target"`
		StartsAt    string  `json:"starts_at"`
		EndsAt      string  `json:"ends_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.Metric == "" {
		req.Metric = "steps"
	}
	if !challengeMetrics[req.Metric] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "metric must be steps, calories, distance, or workout"})
		return
	}
	if req.Target <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target must be positive"})
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "starts_at must be RFC 3339"})
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ends_at must be RFC 3339"})
		return
	}
	if !endsAt.After(startsAt) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ends_at must be after starts_at"})
		return
	}

	challenge, err := h.challenges.Create(req.Title, req.Description, req.Metric, req.Target, startsAt, endsAt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create challenge"})
		return
	}

	h.broadcast(websocket.NewMessage("challenge", "created", challenge.ID, nil))
	writeJSON(w, http.StatusCreated, challenge)
}

// Get returns the challenge with its participant standings.
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	standing, err := h.challenges.Standing(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get challenge"})
		return
	}
	if standing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "challenge not found"})
		return
	}
	writeJSON(w, http.StatusOK, standing)
}

func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.challenges.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get challenge"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "challenge not found"})
		return
	}

	if err := h.challenges.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete challenge"})
		return
	}

	h.broadcast(websocket.NewMessage("challenge", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, true)
}

func (h *ChallengeHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, false)
}

func (h *ChallengeHandler) membership(w http.ResponseWriter, r *http.Request, join bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	challenge, err := h.challenges.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get challenge"})
		return
	}
	if challenge == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "challenge not found"})
		return
	}

	var req struct {
		MemberID int64 `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
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

	if join {
		err = h.challenges.Join(id, req.MemberID)
	} else {
		err = h.challenges.Leave(id, req.MemberID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update participants"})
		return
	}

	h.broadcast(websocket.NewMessage("challenge", "updated", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
