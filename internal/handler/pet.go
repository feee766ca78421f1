package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/pet"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

type PetHandler struct {
	members *store.MemberStore
	pets    *store.PetStore
	hub     *websocket.Hub
}

func NewPetHandler(members *store.MemberStore, pets *store.PetStore, hub *websocket.Hub) *PetHandler {
	return &PetHandler{members: members, pets: pets, hub: hub}
}

func (h *PetHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Adopt gives the member a companion. One pet per member.
func (h *PetHandler) Adopt(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	existing, err := h.pets.GetByMember(member.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get pet"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "member already has a pet"})
		return
	}

	var req struct {
		Name    string `json:"name"`
		Species string `json:"species"`
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
	if req.Species == "" {
		req.Species = "pup"
	}

	p, err := h.pets.Create(member.ID, req.Name, req.Species)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to adopt pet"})
		return
	}

	h.broadcast(websocket.NewMemberMessage("pet", "adopted", p.ID, member.ID, nil))
	writeJSON(w, http.StatusCreated, p)
}

// Get returns the member's pet with decay applied up to now.
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPet(w, r)
	if !ok {
		return
	}

	pet.ApplyDecay(p, time.Now())
	if err := h.pets.Save(p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save pet"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PetHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, pet.Feed, "fed")
}

func (h *PetHandler) Play(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, pet.Play, "played")
}

func (h *PetHandler) interact(w http.ResponseWriter, r *http.Request, action func(*model.Pet, time.Time), verb string) {
	p, ok := h.loadPet(w, r)
	if !ok {
		return
	}

	now := time.Now()
	pet.ApplyDecay(p, now)
	action(p, now)

	if err := h.pets.Save(p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save pet"})
		return
	}

	h.broadcast(websocket.NewMemberMessage("pet", verb, p.ID, p.MemberID, nil))
	writeJSON(w, http.StatusOK, p)
}

func (h *PetHandler) loadMember(w http.ResponseWriter, r *http.Request) (*model.FamilyMember, bool) {
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

// loadPet resolves the {id} member path parameter to that member's pet.
func (h *PetHandler) loadPet(w http.ResponseWriter, r *http.Request) (*model.Pet, bool) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return nil, false
	}

	p, err := h.pets.GetByMember(member.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get pet"})
		return nil, false
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member has no pet"})
		return nil, false
	}
	return p, true
}
