package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type MemberHandler struct {
	store *store.MemberStore
	hub   *websocket.Hub
}

func NewMemberHandler(s *store.MemberStore, hub *websocket.Hub) *MemberHandler {
	return &MemberHandler{store: s, hub: hub}
}

func (h *MemberHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list family members"})
		return
	}
	if members == nil {
		members = []model.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Relationship string `json:"relationship"`
		Color        string `json:"color"`
		AvatarEmoji  string `json:"avatar_emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if req.Color == "" {
		req.Color = "#3B82F6"
	}
	if !hexColorRegexp.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be a hex color (e.g. #FF0000)"})
		return
	}

	if req.AvatarEmoji == "" {
		req.AvatarEmoji = "🙂"
	}

	exists, err := h.store.NameExists(req.Name, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check name"})
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a family member with that name already exists"})
		return
	}

	member, err := h.store.Create(req.Name, req.Relationship, req.Color, req.AvatarEmoji)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create family member"})
		return
	}

	h.broadcast(websocket.NewMessage("member", "created", member.ID, nil))
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Name         string `json:"name"`
		Relationship string `json:"relationship"`
		Color        string `json:"color"`
		AvatarEmoji  string `json:"avatar_emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if req.Relationship == "" {
		req.Relationship = existing.Relationship
	}
	if req.Color == "" {
		req.Color = existing.Color
	}
	if !hexColorRegexp.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be a hex color (e.g. #FF0000)"})
		return
	}
	if req.AvatarEmoji == "" {
		req.AvatarEmoji = existing.AvatarEmoji
	}

	exists, err := h.store.NameExists(req.Name, existing.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check name"})
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a family member with that name already exists"})
		return
	}

	member, err := h.store.Update(existing.ID, req.Name, req.Relationship, req.Color, req.AvatarEmoji)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update family member"})
		return
	}

	h.broadcast(websocket.NewMessage("member", "updated", member.ID, nil))
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) UpdateGoals(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	var req struct {
		StepGoal    int     `json:"step_goal"`
		CalorieGoal int     `json:"calorie_goal"`
		SleepGoal   float64 `json:"sleep_goal"`
		WaterGoal   float64 `json:"water_goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.StepGoal <= 0 || req.CalorieGoal <= 0 || req.SleepGoal <= 0 || req.WaterGoal <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "goals must be positive"})
		return
	}

	member, err := h.store.UpdateGoals(existing.ID, req.StepGoal, req.CalorieGoal, req.SleepGoal, req.WaterGoal)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update goals"})
		return
	}

	h.broadcast(websocket.NewMessage("member", "updated", member.ID, nil))
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(existing.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete family member"})
		return
	}

	h.broadcast(websocket.NewMessage("member", "deleted", existing.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) UpdateSortOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ids are required"})
		return
	}

	if err := h.store.UpdateSortOrder(req.IDs); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update sort order"})
		return
	}

	h.broadcast(websocket.NewMessage("member", "reordered", 0, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be exactly 4 digits"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash PIN"})
		return
	}

	if err := h.store.SetPIN(existing.ID, string(hash)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

func (h *MemberHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	if err := h.store.ClearPIN(existing.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

func (h *MemberHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	hash, err := h.store.GetPINHash(existing.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get PIN"})
		return
	}
	if hash == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no PIN set for this member"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// loadMember resolves the {id} path parameter, writing the error
// response itself when the id is bad or unknown.
func (h *MemberHandler) loadMember(w http.ResponseWriter, r *http.Request) (*model.FamilyMember, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	member, err := h.store.GetByID(id)
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

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
