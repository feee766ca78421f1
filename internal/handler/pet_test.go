package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
)

func TestPetAdoptAndInteract(t *testing.T) {
	db := setupTestDB(t)
	ms := store.NewMemberStore(db)
	ps := store.NewPetStore(db)
	h := NewPetHandler(ms, ps, nil)

	member, _ := ms.Create("Pippin", "son", "#F59E0B", "🍄")
	path := "/api/members/" + itoa(member.ID) + "/pet"

	rec := request(t, "POST /api/members/{id}/pet", h.Adopt, http.MethodPost, path,
		`{"name":"Biscuit","species":"pup"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("adopt status = %d: %s", rec.Code, rec.Body.String())
	}

	// Second adoption for the same member conflicts.
	rec = request(t, "POST /api/members/{id}/pet", h.Adopt, http.MethodPost, path,
		`{"name":"Crumb"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("second adopt status = %d, want 409", rec.Code)
	}

	rec = request(t, "POST /api/members/{id}/pet/feed", h.Feed, http.MethodPost, path+"/feed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
	var p model.Pet
	json.NewDecoder(rec.Body).Decode(&p)
	if p.Hunger != 100 {
		t.Errorf("hunger after feed = %d, want 100 (70 default + 30)", p.Hunger)
	}

	rec = request(t, "POST /api/members/{id}/pet/play", h.Play, http.MethodPost, path+"/play", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("play status = %d", rec.Code)
	}
	json.NewDecoder(rec.Body).Decode(&p)
	if p.XP != 15 {
		t.Errorf("xp after play = %d, want 15", p.XP)
	}
	if p.Mood == "" {
		t.Error("mood should be set after an interaction")
	}
}

func TestPetGetWithoutPet(t *testing.T) {
	db := setupTestDB(t)
	ms := store.NewMemberStore(db)
	h := NewPetHandler(ms, store.NewPetStore(db), nil)

	member, _ := ms.Create("Sam", "son", "#10B981", "🥕")

	rec := request(t, "GET /api/members/{id}/pet", h.Get, http.MethodGet,
		"/api/members/"+itoa(member.ID)+"/pet", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
