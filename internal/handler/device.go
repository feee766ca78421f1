package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/store"
)

type DeviceHandler struct {
	devices *store.DeviceStore
	members *store.MemberStore
}

func NewDeviceHandler(devices *store.DeviceStore, members *store.MemberStore) *DeviceHandler {
	return &DeviceHandler{devices: devices, members: members}
}

// Register creates a device credential. The response is the only time
// the plaintext token is shown.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		MemberID *int64 `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if req.MemberID != nil {
		member, err := h.members.GetByID(*req.MemberID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family member"})
			return
		}
		if member == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "family member not found"})
			return
		}
	}

	device, token, err := h.devices.Register(req.Name, req.MemberID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register device"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"device": device,
		"token":  token,
	})
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.devices.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list devices"})
		return
	}
	if devices == nil {
		devices = []model.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

// Revoke deletes a device credential, ending its access immediately.
func (h *DeviceHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	device, err := h.devices.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get device"})
		return
	}
	if device == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "device not found"})
		return
	}

	if err := h.devices.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to revoke device"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
