package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/tookish/internal/handler"
	"github.com/dukerupert/tookish/internal/middleware"
	"github.com/dukerupert/tookish/internal/simulate"
	"github.com/dukerupert/tookish/internal/store"
	syncmgr "github.com/dukerupert/tookish/internal/sync"
	"github.com/dukerupert/tookish/internal/tracker"
	ws "github.com/dukerupert/tookish/internal/websocket"
)

// Config holds everything the server needs beyond the database.
type Config struct {
	Sync            syncmgr.Config
	TrackerInterval time.Duration
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	memberH      *handler.MemberHandler
	metricsH     *handler.MetricsHandler
	scoreH       *handler.ScoreHandler
	leaderboardH *handler.LeaderboardHandler
	badgeH       *handler.BadgeHandler
	workoutH     *handler.WorkoutHandler
	challengeH   *handler.ChallengeHandler
	petH         *handler.PetHandler
	deviceH      *handler.DeviceHandler
	settingsH    *handler.SettingsHandler
	syncH        *handler.SyncHandler
	deviceStore  *store.DeviceStore
	rateLimiter  *middleware.RateLimiter
	tracker      *tracker.Tracker
	syncManager  *syncmgr.Manager
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	metricStore := store.NewMetricStore(db)
	badgeStore := store.NewBadgeStore(db)
	workoutStore := store.NewWorkoutStore(db)
	challengeStore := store.NewChallengeStore(db)
	petStore := store.NewPetStore(db)
	deviceStore := store.NewDeviceStore(db)
	syncStore := store.NewSyncStore(db)
	settingsStore := store.NewSettingsStore(db)

	// Non-secret sync target settings saved through the API take effect on
	// restart. Environment variables win when both are set.
	if ss, err := settingsStore.GetSyncSettings(); err == nil {
		if cfg.Sync.S3.Bucket == "" {
			cfg.Sync.S3.Bucket = ss["sync_bucket"]
		}
		if cfg.Sync.S3.Region == "" {
			cfg.Sync.S3.Region = ss["sync_region"]
		}
		if cfg.Sync.S3.Endpoint == "" {
			cfg.Sync.S3.Endpoint = ss["sync_endpoint"]
		}
	}

	syncMgr := syncmgr.NewManager(cfg.Sync, syncStore, func(s syncmgr.Status) {
		hub.Broadcast(ws.Message{
			Type:   "sync_status",
			Entity: "sync",
			Action: string(s.State),
			Extra: map[string]any{
				"pending": s.Pending,
				"error":   s.Error,
			},
		})
	}, logger.With("component", "sync"))

	interval := cfg.TrackerInterval
	if ss, err := settingsStore.GetSimulatorSettings(); err == nil {
		if secs, err := strconv.Atoi(ss["simulator_interval_seconds"]); err == nil && secs >= 5 {
			interval = time.Duration(secs) * time.Second
		}
	}

	// Without a configured sync target nothing drains the journal, so
	// writers get a nil journal and skip enqueueing.
	journal := syncStore
	if !syncMgr.Enabled() {
		journal = nil
	}

	trk := tracker.New(simulate.NewSimulated(time.Now().UnixNano()), tracker.Stores{
		Members:    memberStore,
		Metrics:    metricStore,
		Badges:     badgeStore,
		Challenges: challengeStore,
		Pets:       petStore,
		Journal:    journal,
	}, hub, logger.With("component", "tracker"), interval)

	return &Server{
		db:           db,
		hub:          hub,
		memberH:      handler.NewMemberHandler(memberStore, hub),
		metricsH:     handler.NewMetricsHandler(memberStore, metricStore, journal, hub, logger.With("component", "handler")),
		scoreH:       handler.NewScoreHandler(memberStore, metricStore),
		leaderboardH: handler.NewLeaderboardHandler(memberStore, metricStore, badgeStore),
		badgeH:       handler.NewBadgeHandler(memberStore, metricStore, badgeStore, hub),
		workoutH:     handler.NewWorkoutHandler(memberStore, workoutStore, journal, hub, logger.With("component", "handler")),
		challengeH:   handler.NewChallengeHandler(memberStore, challengeStore, hub),
		petH:         handler.NewPetHandler(memberStore, petStore, hub),
		deviceH:      handler.NewDeviceHandler(deviceStore, memberStore),
		settingsH:    handler.NewSettingsHandler(settingsStore, hub),
		syncH:        handler.NewSyncHandler(syncMgr),
		deviceStore:  deviceStore,
		rateLimiter:  middleware.NewRateLimiter(),
		tracker:      trk,
		syncManager:  syncMgr,
		logger:       logger,
	}
}

// Tracker returns the metric tracker for lifecycle management.
func (s *Server) Tracker() *tracker.Tracker {
	return s.tracker
}

// SyncManager returns the cloud sync manager for lifecycle management.
func (s *Server) SyncManager() *syncmgr.Manager {
	return s.syncManager
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no device token required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/devices/register", s.rateLimitedHandler(s.deviceH.Register))

	// Protected routes, wrapped with RequireDevice middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	deviceMiddleware := middleware.RequireDevice(s.deviceStore)
	outerMux.Handle("/", deviceMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Family member routes
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("PUT /api/members/sort", s.memberH.UpdateSortOrder)
	mux.HandleFunc("PUT /api/members/{id}/goals", s.memberH.UpdateGoals)

	// PIN routes
	mux.HandleFunc("POST /api/members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.memberH.ClearPIN)
	mux.HandleFunc("POST /api/members/{id}/pin/verify", s.memberH.VerifyPIN)

	// Daily metric routes
	mux.HandleFunc("GET /api/members/{id}/metrics/today", s.metricsH.Today)
	mux.HandleFunc("GET /api/members/{id}/metrics", s.metricsH.History)
	mux.HandleFunc("GET /api/members/{id}/metrics/rollup", s.metricsH.Rollup)
	mux.HandleFunc("PUT /api/members/{id}/metrics", s.metricsH.Record)

	// Health score and leaderboard
	mux.HandleFunc("GET /api/members/{id}/score", s.scoreH.Get)
	mux.HandleFunc("GET /api/leaderboard", s.leaderboardH.Get)

	// Badge routes
	mux.HandleFunc("GET /api/badges", s.badgeH.Catalog)
	mux.HandleFunc("GET /api/members/{id}/badges", s.badgeH.ListForMember)
	mux.HandleFunc("POST /api/members/{id}/badges/evaluate", s.badgeH.Evaluate)

	// Workout routes
	mux.HandleFunc("POST /api/workouts", s.workoutH.Create)
	mux.HandleFunc("GET /api/members/{id}/workouts", s.workoutH.ListByMember)
	mux.HandleFunc("GET /api/workouts/{id}", s.workoutH.Get)
	mux.HandleFunc("DELETE /api/workouts/{id}", s.workoutH.Delete)
	mux.HandleFunc("POST /api/workouts/{id}/samples", s.workoutH.AddSamples)

	// Challenge routes
	mux.HandleFunc("GET /api/challenges", s.challengeH.List)
	mux.HandleFunc("POST /api/challenges", s.challengeH.Create)
	mux.HandleFunc("GET /api/challenges/{id}", s.challengeH.Get)
	mux.HandleFunc("DELETE /api/challenges/{id}", s.challengeH.Delete)
	mux.HandleFunc("POST /api/challenges/{id}/join", s.challengeH.Join)
	mux.HandleFunc("POST /api/challenges/{id}/leave", s.challengeH.Leave)

	// Pet routes
	mux.HandleFunc("POST /api/members/{id}/pet", s.petH.Adopt)
	mux.HandleFunc("GET /api/members/{id}/pet", s.petH.Get)
	mux.HandleFunc("POST /api/members/{id}/pet/feed", s.petH.Feed)
	mux.HandleFunc("POST /api/members/{id}/pet/play", s.petH.Play)

	// Device management
	mux.HandleFunc("GET /api/devices", s.deviceH.List)
	mux.HandleFunc("DELETE /api/devices/{id}", s.deviceH.Revoke)

	// Settings
	mux.HandleFunc("GET /api/settings/simulator", s.settingsH.GetSimulator)
	mux.HandleFunc("PUT /api/settings/simulator", s.settingsH.UpdateSimulator)
	mux.HandleFunc("GET /api/settings/sync", s.settingsH.GetSync)
	mux.HandleFunc("PUT /api/settings/sync", s.settingsH.UpdateSync)

	// Cloud sync
	mux.HandleFunc("GET /api/sync/status", s.syncH.Status)
	mux.HandleFunc("POST /api/sync/flush", s.syncH.Flush)

	// WebSocket for live dashboard updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
