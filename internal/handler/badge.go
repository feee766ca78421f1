package handler

import (
	"net/http"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

type BadgeHandler struct {
	members *store.MemberStore
	metrics *store.MetricStore
	badges  *store.BadgeStore
	hub     *websocket.Hub
}

func NewBadgeHandler(members *store.MemberStore, metrics *store.MetricStore, badges *store.BadgeStore, hub *websocket.Hub) *BadgeHandler {
	return &BadgeHandler{members: members, metrics: metrics, badges: badges, hub: hub}
}

func (h *BadgeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Catalog returns every badge definition.
func (h *BadgeHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.badges.Catalog()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get badge catalog"})
		return
	}
	if catalog == nil {
		catalog = []model.Badge{}
	}
	writeJSON(w, http.StatusOK, catalog)
}

// ListForMember returns the catalog annotated with the member's unlock
// state.
func (h *BadgeHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	badges, err := h.badges.ListForMember(member.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get badges"})
		return
	}
	if badges == nil {
		badges = []model.MemberBadge{}
	}
	writeJSON(w, http.StatusOK, badges)
}

// Evaluate checks today's readings against the catalog and records any
// newly earned badges. Safe to call repeatedly.
func (h *BadgeHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
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

	catalog, err := h.badges.Catalog()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get badge catalog"})
		return
	}

	unlocked, err := h.badges.UnlockedIDs(member.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get unlocks"})
		return
	}

	earned := health.EvaluateBadges(*m, streak, catalog, unlocked, now)
	for _, u := range earned {
		if err := h.badges.Unlock(u.BadgeID, u.MemberID, u.UnlockedAt); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record unlock"})
			return
		}
		h.broadcast(websocket.NewMemberMessage("badge", "unlocked", u.BadgeID, member.ID, nil))
	}
	if earned == nil {
		earned = []model.BadgeUnlock{}
	}

	writeJSON(w, http.StatusOK, earned)
}

func (h *BadgeHandler) loadMember(w http.ResponseWriter, r *http.Request) (*model.FamilyMember, bool) {
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
