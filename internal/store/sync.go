package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/tookish/internal/model"
)

type SyncStore struct {
	db *sql.DB
}

func NewSyncStore(db *sql.DB) *SyncStore {
	return &SyncStore{db: db}
}

// Enqueue journals a record snapshot for upload. Payload must already be
// serialized JSON.
func (s *SyncStore) Enqueue(entity string, entityID int64, payload string) (*model.SyncRecord, error) {
	result, err := s.db.Exec(
		"INSERT INTO sync_journal (record_id, entity, entity_id, payload) VALUES (?, ?, ?, ?)",
		uuid.NewString(), entity, entityID, payload,
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue sync record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

const syncColumns = "id, record_id, entity, entity_id, payload, status, attempts, last_error, created_at, synced_at"

func scanSyncRecord(row interface{ Scan(...any) error }) (*model.SyncRecord, error) {
	var r model.SyncRecord
	var syncedAt sql.NullTime
	err := row.Scan(&r.ID, &r.RecordID, &r.Entity, &r.EntityID, &r.Payload, &r.Status,
		&r.Attempts, &r.LastError, &r.CreatedAt, &syncedAt)
	if err != nil {
		return nil, err
	}
	if syncedAt.Valid {
		r.SyncedAt = &syncedAt.Time
	}
	return &r, nil
}

func (s *SyncStore) GetByID(id int64) (*model.SyncRecord, error) {
	r, err := scanSyncRecord(s.db.QueryRow("SELECT "+syncColumns+" FROM sync_journal WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query sync record: %w", err)
	}
	return r, nil
}

// ListPending returns unsynced records oldest first. Failed records are
// included so they retry on the next flush.
func (s *SyncStore) ListPending(limit int) ([]model.SyncRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		"SELECT "+syncColumns+" FROM sync_journal WHERE status != ? ORDER BY created_at LIMIT ?",
		model.SyncStatusSynced, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending sync records: %w", err)
	}
	defer rows.Close()

	var records []model.SyncRecord
	for rows.Next() {
		r, err := scanSyncRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *SyncStore) CountPending() (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sync_journal WHERE status != ?", model.SyncStatusSynced,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return count, nil
}

func (s *SyncStore) MarkSynced(id int64, at time.Time) error {
	_, err := s.db.Exec(
		"UPDATE sync_journal SET status = ?, synced_at = ?, last_error = '' WHERE id = ?",
		model.SyncStatusSynced, at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (s *SyncStore) MarkFailed(id int64, errMsg string) error {
	_, err := s.db.Exec(
		"UPDATE sync_journal SET status = ?, attempts = attempts + 1, last_error = ? WHERE id = ?",
		model.SyncStatusFailed, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// PruneSynced deletes synced records older than the cutoff.
func (s *SyncStore) PruneSynced(olderThan time.Time) (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM sync_journal WHERE status = ? AND synced_at < ?",
		model.SyncStatusSynced, olderThan.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("prune synced: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
