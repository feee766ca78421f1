package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/tookish/internal/model"
)

type BadgeStore struct {
	db *sql.DB
}

func NewBadgeStore(db *sql.DB) *BadgeStore {
	return &BadgeStore{db: db}
}

// Catalog returns every badge definition in display order.
func (s *BadgeStore) Catalog() ([]model.Badge, error) {
	rows, err := s.db.Query(
		"SELECT id, name, description, icon, category, threshold, sort_order FROM badges ORDER BY sort_order",
	)
	if err != nil {
		return nil, fmt.Errorf("query badge catalog: %w", err)
	}
	defer rows.Close()

	var badges []model.Badge
	for rows.Next() {
		var b model.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category, &b.Threshold, &b.SortOrder); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// UnlockedIDs returns the set of badge IDs the member has earned.
func (s *BadgeStore) UnlockedIDs(memberID int64) (map[int64]bool, error) {
	rows, err := s.db.Query("SELECT badge_id FROM badge_unlocks WHERE member_id = ?", memberID)
	if err != nil {
		return nil, fmt.Errorf("query unlocked badges: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

// Unlock records a badge for a member. Unlocking an already-unlocked
// badge is a no-op; the original timestamp is kept.
func (s *BadgeStore) Unlock(badgeID, memberID int64, at time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO badge_unlocks (badge_id, member_id, unlocked_at) VALUES (?, ?, ?) ON CONFLICT(badge_id, member_id) DO NOTHING",
		badgeID, memberID, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("unlock badge: %w", err)
	}
	return nil
}

// ListForMember returns the full catalog annotated with the member's
// unlock state.
func (s *BadgeStore) ListForMember(memberID int64) ([]model.MemberBadge, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.name, b.description, b.icon, b.category, b.threshold, b.sort_order, u.unlocked_at
		FROM badges b
		LEFT JOIN badge_unlocks u ON u.badge_id = b.id AND u.member_id = ?
		ORDER BY b.sort_order`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("query member badges: %w", err)
	}
	defer rows.Close()

	var badges []model.MemberBadge
	for rows.Next() {
		var mb model.MemberBadge
		var unlockedAt sql.NullTime
		if err := rows.Scan(&mb.ID, &mb.Name, &mb.Description, &mb.Icon, &mb.Category, &mb.Threshold, &mb.SortOrder, &unlockedAt); err != nil {
			return nil, fmt.Errorf("scan member badge: %w", err)
		}
		if unlockedAt.Valid {
			mb.IsUnlocked = true
			mb.UnlockedAt = &unlockedAt.Time
		}
		badges = append(badges, mb)
	}
	return badges, rows.Err()
}

// CountUnlocked returns how many badges the member has earned.
func (s *BadgeStore) CountUnlocked(memberID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM badge_unlocks WHERE member_id = ?", memberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unlocks: %w", err)
	}
	return count, nil
}
