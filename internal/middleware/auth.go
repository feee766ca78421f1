package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/tookish/internal/auth"
	"github.com/dukerupert/tookish/internal/store"
)

// RequireDevice validates the bearer token against registered devices
// and populates the device context. Requests without a valid token get
// a JSON 401.
func RequireDevice(devices *store.DeviceStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			device, err := devices.GetByToken(token)
			if err != nil || device == nil {
				unauthorized(w)
				return
			}

			// Best effort; an auth'd request shouldn't fail on bookkeeping.
			_ = devices.TouchLastSeen(device.ID, time.Now())

			dc := auth.DeviceContext{DeviceID: device.ID}
			if device.MemberID != nil {
				dc.MemberID = *device.MemberID
			}

			ctx := auth.WithDevice(r.Context(), dc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"missing or invalid device token"}`))
}
