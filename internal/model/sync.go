package model

import "time"

// Sync journal statuses. A failed record stays eligible for retry until
// it syncs.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusFailed  = "failed"
)

// SyncRecord is one journaled snapshot awaiting upload to the cloud
// record store. RecordID is the stable cloud key; Payload is the
// serialized entity as JSON.
type SyncRecord struct {
	ID        int64      `json:"id"`
	RecordID  string     `json:"record_id"`
	Entity    string     `json:"entity"`
	EntityID  int64      `json:"entity_id"`
	Payload   string     `json:"payload"`
	Status    string     `json:"status"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
}
