package model

import "time"

// Challenge is a shared family goal over a date window. Metric names an
// additive daily metric (steps, calories, distance, workout); Target is
// the combined amount the participants work toward.
type Challenge struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Metric      string    `json:"metric"`
	Target      float64   `json:"target"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeParticipant is one member's share of a challenge. Progress is
// the member's cumulative contribution since the challenge started.
type ChallengeParticipant struct {
	ChallengeID int64     `json:"challenge_id"`
	MemberID    int64     `json:"member_id"`
	Progress    float64   `json:"progress"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ChallengeStanding is a challenge with its participant ranking and the
// group's completion percentage, clamped to 100.
type ChallengeStanding struct {
	Challenge         `json:"challenge"`
	Participants      []ChallengeParticipant `json:"participants"`
	TotalProgress     float64                `json:"total_progress"`
	CompletionPercent float64                `json:"completion_percent"`
}
