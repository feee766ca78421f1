package store

import (
	"database/sql"
	"fmt"
)

var syncKeys = []string{
	"sync_enabled",
	"sync_bucket",
	"sync_region",
	"sync_endpoint",
}

var simulatorKeys = []string{
	"simulator_enabled",
	"simulator_interval_seconds",
}

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *SettingsStore) getKeys(keys []string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		var value string
		err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
		if err == sql.ErrNoRows {
			result[key] = ""
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get setting %q: %w", key, err)
		}
		result[key] = value
	}
	return result, nil
}

func (s *SettingsStore) GetSyncSettings() (map[string]string, error) {
	return s.getKeys(syncKeys)
}

func (s *SettingsStore) GetSimulatorSettings() (map[string]string, error) {
	return s.getKeys(simulatorKeys)
}
