package handler

import (
	"net/http"

	"github.com/dukerupert/tookish/internal/sync"
)

type SyncHandler struct {
	manager *sync.Manager
}

func NewSyncHandler(manager *sync.Manager) *SyncHandler {
	return &SyncHandler{manager: manager}
}

// Status reports the sync manager state and the pending journal depth.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

// Flush uploads the pending journal immediately instead of waiting for
// the next scheduled pass.
func (h *SyncHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cloud sync is not configured"})
		return
	}

	if err := h.manager.Flush(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "flush failed"})
		return
	}

	writeJSON(w, http.StatusOK, h.manager.Status())
}
