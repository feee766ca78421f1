package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dukerupert/tookish/internal/database"
	"github.com/dukerupert/tookish/internal/logging"
	"github.com/dukerupert/tookish/internal/server"
	"github.com/dukerupert/tookish/internal/sync"
)

func main() {
	logger := logging.Setup(os.Getenv("TOOKISH_LOG_LEVEL"))

	port := os.Getenv("TOOKISH_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("TOOKISH_DB_PATH")
	if dbPath == "" {
		dbPath = "tookish.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		Sync: sync.Config{
			S3: sync.S3Config{
				Endpoint:  os.Getenv("TOOKISH_S3_ENDPOINT"),
				Bucket:    os.Getenv("TOOKISH_S3_BUCKET"),
				Region:    os.Getenv("TOOKISH_S3_REGION"),
				AccessKey: os.Getenv("TOOKISH_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("TOOKISH_S3_SECRET_KEY"),
			},
			Interval: envDuration("TOOKISH_SYNC_INTERVAL_SECONDS", 5*time.Minute),
		},
		TrackerInterval: envDuration("TOOKISH_TRACKER_INTERVAL_SECONDS", time.Minute),
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Tracker().Start(ctx)
	defer srv.Tracker().Stop()

	if srv.SyncManager().Enabled() {
		srv.SyncManager().Start(ctx)
		defer srv.SyncManager().Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Tookish running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
