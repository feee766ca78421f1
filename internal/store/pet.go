package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/tookish/internal/model"
)

type PetStore struct {
	db *sql.DB
}

func NewPetStore(db *sql.DB) *PetStore {
	return &PetStore{db: db}
}

const petColumns = "id, member_id, name, species, hunger, happiness, energy, level, xp, last_fed_at, last_played_at, updated_at, created_at"

func scanPet(row interface{ Scan(...any) error }) (*model.Pet, error) {
	var p model.Pet
	err := row.Scan(&p.ID, &p.MemberID, &p.Name, &p.Species, &p.Hunger, &p.Happiness, &p.Energy,
		&p.Level, &p.XP, &p.LastFedAt, &p.LastPlayedAt, &p.UpdatedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create adopts a pet for a member. A member keeps at most one pet.
func (s *PetStore) Create(memberID int64, name, species string) (*model.Pet, error) {
	result, err := s.db.Exec(
		"INSERT INTO pets (member_id, name, species) VALUES (?, ?, ?)",
		memberID, name, species,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PetStore) GetByID(id int64) (*model.Pet, error) {
	p, err := scanPet(s.db.QueryRow("SELECT "+petColumns+" FROM pets WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pet: %w", err)
	}
	return p, nil
}

func (s *PetStore) GetByMember(memberID int64) (*model.Pet, error) {
	p, err := scanPet(s.db.QueryRow("SELECT "+petColumns+" FROM pets WHERE member_id = ?", memberID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pet by member: %w", err)
	}
	return p, nil
}

func (s *PetStore) List() ([]model.Pet, error) {
	rows, err := s.db.Query("SELECT " + petColumns + " FROM pets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query pets: %w", err)
	}
	defer rows.Close()

	var pets []model.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, *p)
	}
	return pets, rows.Err()
}

// Save writes back mutable pet state after decay or an interaction.
// updated_at is the decay clock and comes from the struct; stamping it
// with the write time would swallow sub-hour decay remainders.
func (s *PetStore) Save(p *model.Pet) error {
	_, err := s.db.Exec(`
		UPDATE pets SET name = ?, hunger = ?, happiness = ?, energy = ?, level = ?, xp = ?,
			last_fed_at = ?, last_played_at = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Hunger, p.Happiness, p.Energy, p.Level, p.XP,
		p.LastFedAt.UTC(), p.LastPlayedAt.UTC(), p.UpdatedAt.UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("save pet: %w", err)
	}
	return nil
}

func (s *PetStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM pets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	return nil
}
