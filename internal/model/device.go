package model

import "time"

// Device is a registered client credential. The API never exposes the
// token hash; PublicID identifies the device externally.
type Device struct {
	ID         int64      `json:"id"`
	PublicID   string     `json:"public_id"`
	Name       string     `json:"name"`
	MemberID   *int64     `json:"member_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}
