package store

import (
	"testing"
	"time"
)

func TestPetLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	ps := NewPetStore(db)

	member, _ := ms.Create("Elanor", "daughter", "#F59E0B", "👧")

	p, err := ps.Create(member.ID, "Pippin", "pup")
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if p.Name != "Pippin" || p.Species != "pup" {
		t.Errorf("pet = %+v", p)
	}
	if p.Level != 1 || p.Hunger != 70 {
		t.Errorf("defaults = level %d, hunger %d", p.Level, p.Hunger)
	}

	byMember, err := ps.GetByMember(member.ID)
	if err != nil {
		t.Fatalf("get by member: %v", err)
	}
	if byMember == nil || byMember.ID != p.ID {
		t.Fatalf("by member = %+v", byMember)
	}

	p.Hunger = 95
	p.Level = 3
	p.XP = 40
	p.LastFedAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := ps.Save(p); err != nil {
		t.Fatalf("save pet: %v", err)
	}

	got, _ := ps.GetByID(p.ID)
	if got.Hunger != 95 || got.Level != 3 || got.XP != 40 {
		t.Errorf("saved = %+v", got)
	}

	if err := ps.Delete(p.ID); err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	got, _ = ps.GetByID(p.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestPetSaveKeepsDecayClock(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	ps := NewPetStore(db)

	member, _ := ms.Create("Elanor", "daughter", "#F59E0B", "👧")
	p, _ := ps.Create(member.ID, "Pippin", "pup")

	// updated_at marks the last consumed decay hour, so Save must write
	// the struct's value rather than the wall clock.
	clock := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	p.UpdatedAt = clock
	if err := ps.Save(p); err != nil {
		t.Fatalf("save pet: %v", err)
	}

	got, err := ps.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if !got.UpdatedAt.Equal(clock) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, clock)
	}
}

func TestPetOnePerMember(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	ps := NewPetStore(db)

	member, _ := ms.Create("Elanor", "daughter", "#F59E0B", "👧")
	if _, err := ps.Create(member.ID, "Pippin", "pup"); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if _, err := ps.Create(member.ID, "Merry", "kit"); err == nil {
		t.Error("expected unique constraint error for second pet")
	}
}

func TestPetDeletedWithMember(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	ps := NewPetStore(db)

	member, _ := ms.Create("Elanor", "daughter", "#F59E0B", "👧")
	p, _ := ps.Create(member.ID, "Pippin", "pup")

	if err := ms.Delete(member.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	got, _ := ps.GetByID(p.ID)
	if got != nil {
		t.Error("expected pet cascade-deleted with member")
	}
}
