package model

import "time"

// Badge categories. The category names which daily reading the badge's
// threshold is compared against.
const (
	BadgeCategorySteps    = "steps"
	BadgeCategoryCalories = "calories"
	BadgeCategoryDistance = "distance"
	BadgeCategorySleep    = "sleep"
	BadgeCategoryWorkout  = "workout"
	BadgeCategoryStreak   = "streak"
)

// Badge is one catalog entry. Earning it is recorded separately as a
// BadgeUnlock, so the catalog row itself never changes.
type Badge struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Category    string  `json:"category"`
	Threshold   float64 `json:"threshold"`
	SortOrder   int     `json:"sort_order"`
}

// BadgeUnlock records that a member earned a badge at a point in time.
type BadgeUnlock struct {
	BadgeID    int64     `json:"badge_id"`
	MemberID   int64     `json:"member_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// MemberBadge is a catalog badge annotated with one member's unlock
// state, for the per-member badge listing.
type MemberBadge struct {
	Badge
	IsUnlocked bool       `json:"is_unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
