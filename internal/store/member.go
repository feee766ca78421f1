package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/tookish/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberColumns = "id, name, relationship, color, avatar_emoji, pin IS NOT NULL, step_goal, calorie_goal, sleep_goal, water_goal, sort_order, created_at, updated_at"

func scanMember(row interface{ Scan(...any) error }) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := row.Scan(&m.ID, &m.Name, &m.Relationship, &m.Color, &m.AvatarEmoji, &m.HasPIN,
		&m.StepGoal, &m.CalorieGoal, &m.SleepGoal, &m.WaterGoal, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberStore) Create(name, relationship, color, avatarEmoji string) (*model.FamilyMember, error) {
	var maxOrder int
	err := s.db.QueryRow("SELECT COALESCE(MAX(sort_order), -1) FROM family_members").Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO family_members (name, relationship, color, avatar_emoji, sort_order) VALUES (?, ?, ?, ?, ?)",
		name, relationship, color, avatarEmoji, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *MemberStore) List() ([]model.FamilyMember, error) {
	rows, err := s.db.Query("SELECT " + memberColumns + " FROM family_members ORDER BY sort_order")
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(id int64) (*model.FamilyMember, error) {
	m, err := scanMember(s.db.QueryRow("SELECT "+memberColumns+" FROM family_members WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query family member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Update(id int64, name, relationship, color, avatarEmoji string) (*model.FamilyMember, error) {
	_, err := s.db.Exec(
		"UPDATE family_members SET name = ?, relationship = ?, color = ?, avatar_emoji = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, relationship, color, avatarEmoji, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update family member: %w", err)
	}
	return s.GetByID(id)
}

// UpdateGoals sets the member's daily targets. Non-positive goals are
// rejected by the handler, not here.
func (s *MemberStore) UpdateGoals(id int64, stepGoal, calorieGoal int, sleepGoal, waterGoal float64) (*model.FamilyMember, error) {
	_, err := s.db.Exec(
		"UPDATE family_members SET step_goal = ?, calorie_goal = ?, sleep_goal = ?, water_goal = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		stepGoal, calorieGoal, sleepGoal, waterGoal, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update goals: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM family_members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete family member: %w", err)
	}
	return nil
}

func (s *MemberStore) UpdateSortOrder(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE family_members SET sort_order = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(i, id); err != nil {
			return fmt.Errorf("update sort order for id %d: %w", id, err)
		}
	}

	return tx.Commit()
}

func (s *MemberStore) SetPIN(id int64, hashedPIN string) error {
	_, err := s.db.Exec("UPDATE family_members SET pin = ? WHERE id = ?", hashedPIN, id)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

func (s *MemberStore) ClearPIN(id int64) error {
	_, err := s.db.Exec("UPDATE family_members SET pin = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}

func (s *MemberStore) GetPINHash(id int64) (string, error) {
	var pin sql.NullString
	err := s.db.QueryRow("SELECT pin FROM family_members WHERE id = ?", id).Scan(&pin)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("family member not found")
	}
	if err != nil {
		return "", fmt.Errorf("query pin: %w", err)
	}
	if !pin.Valid {
		return "", nil
	}
	return pin.String, nil
}

func (s *MemberStore) NameExists(name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM family_members WHERE name = ? AND id != ?",
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check name exists: %w", err)
	}
	return count > 0, nil
}
