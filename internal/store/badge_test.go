package store

import (
	"testing"
	"time"
)

func TestBadgeCatalogSeeded(t *testing.T) {
	bs := NewBadgeStore(setupTestDB(t))

	catalog, err := bs.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(catalog) == 0 {
		t.Fatal("expected seeded badge catalog")
	}

	var found bool
	for _, b := range catalog {
		if b.Name == "10K Steps" {
			found = true
			if b.Category != "steps" {
				t.Errorf("category = %q, want steps", b.Category)
			}
			if b.Threshold != 10000 {
				t.Errorf("threshold = %v, want 10000", b.Threshold)
			}
		}
	}
	if !found {
		t.Error("catalog missing 10K Steps")
	}
}

func TestBadgeUnlockIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	bs := NewBadgeStore(db)

	member, _ := ms.Create("Sam", "father", "#3B82F6", "🧔")
	catalog, _ := bs.Catalog()
	badge := catalog[0]

	first := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if err := bs.Unlock(badge.ID, member.ID, first); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	// Repeated unlock is a no-op and keeps the original timestamp.
	if err := bs.Unlock(badge.ID, member.ID, first.Add(48*time.Hour)); err != nil {
		t.Fatalf("second unlock: %v", err)
	}

	count, err := bs.CountUnlocked(member.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	badges, err := bs.ListForMember(member.ID)
	if err != nil {
		t.Fatalf("list for member: %v", err)
	}
	for _, mb := range badges {
		if mb.ID != badge.ID {
			continue
		}
		if !mb.IsUnlocked {
			t.Error("expected badge unlocked")
		}
		if mb.UnlockedAt == nil || !mb.UnlockedAt.Equal(first) {
			t.Errorf("unlocked_at = %v, want %v", mb.UnlockedAt, first)
		}
	}
}

func TestBadgeUnlockedIDs(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	bs := NewBadgeStore(db)

	member, _ := ms.Create("Sam", "father", "#3B82F6", "🧔")
	catalog, _ := bs.Catalog()

	bs.Unlock(catalog[0].ID, member.ID, time.Now())
	bs.Unlock(catalog[2].ID, member.ID, time.Now())

	unlocked, err := bs.UnlockedIDs(member.ID)
	if err != nil {
		t.Fatalf("unlocked ids: %v", err)
	}
	if len(unlocked) != 2 {
		t.Errorf("len = %d, want 2", len(unlocked))
	}
	if !unlocked[catalog[0].ID] || !unlocked[catalog[2].ID] {
		t.Errorf("unlocked = %v", unlocked)
	}
	if unlocked[catalog[1].ID] {
		t.Error("badge 1 should not be unlocked")
	}
}
