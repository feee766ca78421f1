package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	hub      *websocket.Hub
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub) *SettingsHandler {
	return &SettingsHandler{settings: ss, hub: hub}
}

func (h *SettingsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *SettingsHandler) GetSimulator(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSimulatorSettings()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSimulator(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := validateSimulatorSettings(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	for key, value := range req {
		if err := h.settings.Set(key, value); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	h.broadcast(websocket.NewMessage("settings", "updated", 0, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *SettingsHandler) GetSync(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSyncSettings()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSync saves the sync target settings. Credentials stay in the
// environment; only the non-secret parts live in the database. Applied
// on the next restart.
func (h *SettingsHandler) UpdateSync(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := validateSyncSettings(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	for key, value := range req {
		if err := h.settings.Set(key, value); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	h.broadcast(websocket.NewMessage("settings", "updated", 0, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func validateSyncSettings(settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case "sync_enabled":
			if value != "true" && value != "false" {
				return fmt.Errorf("%s must be true or false", key)
			}
		case "sync_bucket", "sync_region", "sync_endpoint":
			// Free-form; the manager reports misconfiguration at flush time.
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
	}
	return nil
}

func validateSimulatorSettings(settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case "simulator_enabled":
			if value != "true" && value != "false" {
				return fmt.Errorf("%s must be true or false", key)
			}
		case "simulator_interval_seconds":
			n, err := strconv.Atoi(value)
			if err != nil || n < 5 {
				return fmt.Errorf("%s must be an integer of at least 5", key)
			}
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
	}
	return nil
}
