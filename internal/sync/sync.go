// Package sync mirrors the local record journal to an S3-compatible
// cloud record store. Uploads are best effort: a failed record is marked
// and retried on the next flush, and sync trouble never surfaces as a
// request error.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/tookish/internal/store"
)

// s3Client is the slice of the S3 API the manager uses, for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds sync manager configuration.
type Config struct {
	S3       S3Config
	Interval time.Duration
	// Synced journal entries older than Retention are pruned.
	Retention time.Duration
}

// State represents the sync manager state.
type State string

const (
	StateIdle     State = "idle"
	StateSyncing  State = "syncing"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current sync manager status.
type Status struct {
	State    State      `json:"state"`
	LastSync *time.Time `json:"last_sync,omitempty"`
	Error    string     `json:"error,omitempty"`
	Pending  int        `json:"pending"`
}

// StatusCallback is called whenever the sync state changes.
type StatusCallback func(Status)

// Manager flushes pending journal records to cloud storage on a timer.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	status   Status
	callback StatusCallback

	journal *store.SyncStore
	client  s3Client
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a sync manager. With incomplete S3 credentials the
// manager stays disabled and Flush is a no-op.
func NewManager(cfg Config, journal *store.SyncStore, callback StatusCallback, logger *slog.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}

	m := &Manager{
		cfg:      cfg,
		journal:  journal,
		callback: callback,
		logger:   logger,
		status:   Status{State: StateDisabled},
	}

	if cfg.S3.Bucket != "" && cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}

	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the periodic flush loop.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status.State == StateDisabled {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Flush(ctx); err != nil {
					m.logger.Error("scheduled flush", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully stops the sync manager.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns the current sync status with a live pending count.
func (m *Manager) Status() Status {
	m.mu.RLock()
	s := m.status
	m.mu.RUnlock()

	if pending, err := m.journal.CountPending(); err == nil {
		s.Pending = pending
	}
	return s
}

// Enabled reports whether cloud sync is configured.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.State != StateDisabled
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

// Flush uploads every pending journal record. Individual upload failures
// mark the record failed and continue; the record retries next flush.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil {
		return nil
	}

	records, err := m.journal.ListPending(200)
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return fmt.Errorf("list pending: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	m.setStatus(Status{State: StateSyncing, Pending: len(records)})

	var failed int
	for _, rec := range records {
		key := fmt.Sprintf("records/%s/%s.json", rec.Entity, rec.RecordID)
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader([]byte(rec.Payload)),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			failed++
			m.logger.Warn("upload record", "entity", rec.Entity, "record_id", rec.RecordID, "error", err)
			if err := m.journal.MarkFailed(rec.ID, err.Error()); err != nil {
				m.logger.Error("mark failed", "error", err)
			}
			continue
		}
		if err := m.journal.MarkSynced(rec.ID, time.Now()); err != nil {
			m.logger.Error("mark synced", "error", err)
		}
	}

	if _, err := m.journal.PruneSynced(time.Now().Add(-m.cfg.Retention)); err != nil {
		m.logger.Warn("prune journal", "error", err)
	}

	now := time.Now()
	if failed > 0 {
		m.setStatus(Status{
			State:    StateError,
			LastSync: &now,
			Error:    fmt.Sprintf("%d of %d records failed to upload", failed, len(records)),
			Pending:  failed,
		})
		return nil
	}

	m.setStatus(Status{State: StateIdle, LastSync: &now})
	return nil
}
