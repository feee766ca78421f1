package model

import "time"

// Pet is a member's companion creature. Hunger, happiness, and energy
// sit in [0,100] and decay with real time. Mood is derived from the
// three stats at read time and is not stored.
type Pet struct {
	ID           int64     `json:"id"`
	MemberID     int64     `json:"member_id"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Hunger       int       `json:"hunger"`
	Happiness    int       `json:"happiness"`
	Energy       int       `json:"energy"`
	Level        int       `json:"level"`
	XP           int       `json:"xp"`
	Mood         string    `json:"mood,omitempty"`
	LastFedAt    time.Time `json:"last_fed_at"`
	LastPlayedAt time.Time `json:"last_played_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CreatedAt    time.Time `json:"created_at"`
}
