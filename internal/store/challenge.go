package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
)

type ChallengeStore struct {
	db *sql.DB
}

func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

const challengeColumns = "id, title, description, metric, target, starts_at, ends_at, created_at"

func scanChallenge(row interface{ Scan(...any) error }) (*model.Challenge, error) {
	var c model.Challenge
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Metric, &c.Target, &c.StartsAt, &c.EndsAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ChallengeStore) Create(title, description, metric string, target float64, startsAt, endsAt time.Time) (*model.Challenge, error) {
	result, err := s.db.Exec(
		"INSERT INTO challenges (title, description, metric, target, starts_at, ends_at) VALUES (?, ?, ?, ?, ?, ?)",
		title, description, metric, target, startsAt.UTC(), endsAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChallengeStore) GetByID(id int64) (*model.Challenge, error) {
	c, err := scanChallenge(s.db.QueryRow("SELECT "+challengeColumns+" FROM challenges WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeStore) List() ([]model.Challenge, error) {
	rows, err := s.db.Query("SELECT " + challengeColumns + " FROM challenges ORDER BY starts_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// ListActive returns challenges whose window contains now.
func (s *ChallengeStore) ListActive(now time.Time) ([]model.Challenge, error) {
	rows, err := s.db.Query(
		"SELECT "+challengeColumns+" FROM challenges WHERE starts_at <= ? AND ends_at >= ? ORDER BY starts_at",
		now.UTC(), now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query active challenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

func (s *ChallengeStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM challenges WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// Join adds a member to a challenge. Joining twice is a no-op.
func (s *ChallengeStore) Join(challengeID, memberID int64) error {
	_, err := s.db.Exec(
		"INSERT INTO challenge_participants (challenge_id, member_id) VALUES (?, ?) ON CONFLICT(challenge_id, member_id) DO NOTHING",
		challengeID, memberID,
	)
	if err != nil {
		return fmt.Errorf("join challenge: %w", err)
	}
	return nil
}

func (s *ChallengeStore) Leave(challengeID, memberID int64) error {
	_, err := s.db.Exec(
		"DELETE FROM challenge_participants WHERE challenge_id = ? AND member_id = ?",
		challengeID, memberID,
	)
	if err != nil {
		return fmt.Errorf("leave challenge: %w", err)
	}
	return nil
}

// SetProgress overwrites a participant's cumulative progress.
func (s *ChallengeStore) SetProgress(challengeID, memberID int64, progress float64) error {
	_, err := s.db.Exec(
		"UPDATE challenge_participants SET progress = ? WHERE challenge_id = ? AND member_id = ?",
		progress, challengeID, memberID,
	)
	if err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

func (s *ChallengeStore) Participants(challengeID int64) ([]model.ChallengeParticipant, error) {
	rows, err := s.db.Query(
		"SELECT challenge_id, member_id, progress, joined_at FROM challenge_participants WHERE challenge_id = ? ORDER BY progress DESC",
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var participants []model.ChallengeParticipant
	for rows.Next() {
		var p model.ChallengeParticipant
		if err := rows.Scan(&p.ChallengeID, &p.MemberID, &p.Progress, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Standing returns the challenge with its participants and the clamped
// completion percentage.
func (s *ChallengeStore) Standing(id int64) (*model.ChallengeStanding, error) {
	c, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	participants, err := s.Participants(id)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, p := range participants {
		total += p.Progress
	}

	return &model.ChallengeStanding{
		Challenge:         *c,
		Participants:      participants,
		TotalProgress:     total,
		CompletionPercent: health.CompletionPercent(total, c.Target),
	}, nil
}
