package store

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/tookish/internal/model"
)

type DeviceStore struct {
	db *sql.DB
}

func NewDeviceStore(db *sql.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

// Register creates a device credential and returns the device plus the
// plaintext token. The token is shown once; only its hash is stored.
func (s *DeviceStore) Register(name string, memberID *int64) (*model.Device, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	result, err := s.db.Exec(
		"INSERT INTO devices (public_id, name, token_hash, member_id) VALUES (?, ?, ?, ?)",
		uuid.NewString(), name, hashToken(token), memberID,
	)
	if err != nil {
		return nil, "", fmt.Errorf("insert device: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, "", fmt.Errorf("last insert id: %w", err)
	}

	device, err := s.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	return device, token, nil
}

const deviceColumns = "id, public_id, name, member_id, created_at, last_seen_at"

func scanDevice(row interface{ Scan(...any) error }) (*model.Device, error) {
	var d model.Device
	var lastSeen sql.NullTime
	err := row.Scan(&d.ID, &d.PublicID, &d.Name, &d.MemberID, &d.CreatedAt, &lastSeen)
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		d.LastSeenAt = &lastSeen.Time
	}
	return &d, nil
}

func (s *DeviceStore) GetByID(id int64) (*model.Device, error) {
	d, err := scanDevice(s.db.QueryRow("SELECT "+deviceColumns+" FROM devices WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query device: %w", err)
	}
	return d, nil
}

// GetByToken resolves a plaintext token to its device, or nil if the
// token is unknown.
func (s *DeviceStore) GetByToken(token string) (*model.Device, error) {
	d, err := scanDevice(s.db.QueryRow(
		"SELECT "+deviceColumns+" FROM devices WHERE token_hash = ?", hashToken(token),
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query device by token: %w", err)
	}
	return d, nil
}

func (s *DeviceStore) List() ([]model.Device, error) {
	rows, err := s.db.Query("SELECT " + deviceColumns + " FROM devices ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, *d)
	}
	return devices, rows.Err()
}

func (s *DeviceStore) TouchLastSeen(id int64, at time.Time) error {
	_, err := s.db.Exec("UPDATE devices SET last_seen_at = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch device: %w", err)
	}
	return nil
}

func (s *DeviceStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
