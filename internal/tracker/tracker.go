// Package tracker drives the periodic metric update loop. Each tick it
// samples every member's metric source, persists the day's readings,
// and fans the consequences out: streaks, badge unlocks, challenge
// progress, pet activity credit, the sync journal, and WebSocket
// broadcasts to connected dashboards.
package tracker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/pet"
	"github.com/dukerupert/tookish/internal/simulate"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

// streakWindowDays bounds the history loaded per streak computation.
const streakWindowDays = 90

// Stores bundles the persistence the tracker touches. Journal is nil
// when off-site sync is disabled; nothing would ever drain the queue,
// so the tracker must not feed it.
type Stores struct {
	Members    *store.MemberStore
	Metrics    *store.MetricStore
	Badges     *store.BadgeStore
	Challenges *store.ChallengeStore
	Pets       *store.PetStore
	Journal    *store.SyncStore
}

// Tracker runs the update loop on a fixed interval.
type Tracker struct {
	mu       sync.RWMutex
	source   simulate.Source
	stores   Stores
	hub      *websocket.Hub
	logger   *slog.Logger
	interval time.Duration
	lastDate string
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a tracker. Interval defaults to one minute.
func New(source simulate.Source, stores Stores, hub *websocket.Hub, logger *slog.Logger, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Tracker{
		source:   source,
		stores:   stores,
		hub:      hub,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the tracker loop.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	t.mu.Unlock()

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Tick(ctx, time.Now())
			}
		}
	}()
}

// Stop gracefully stops the tracker.
func (t *Tracker) Stop() {
	t.mu.RLock()
	cancel := t.cancel
	done := t.done
	t.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick runs one full update pass. Exported so a manual refresh endpoint
// can trigger it outside the timer.
func (t *Tracker) Tick(ctx context.Context, now time.Time) {
	today := now.Format(health.DateFormat)
	t.maybeRollover(today)

	members, err := t.stores.Members.List()
	if err != nil {
		t.logger.Error("list members", "error", err)
		return
	}

	catalog, err := t.stores.Badges.Catalog()
	if err != nil {
		t.logger.Error("load badge catalog", "error", err)
		return
	}

	for _, member := range members {
		if err := t.updateMember(ctx, member, catalog, now); err != nil {
			t.logger.Error("update member", "member_id", member.ID, "error", err)
		}
	}

	t.updateChallenges(now)
}

// maybeRollover resets the source's intra-day state when the calendar
// day changes, so cumulative readings start over.
func (t *Tracker) maybeRollover(today string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastDate == today {
		return
	}
	t.lastDate = today
	if r, ok := t.source.(interface{ Reset() }); ok {
		r.Reset()
	}
}

func (t *Tracker) updateMember(ctx context.Context, member model.FamilyMember, catalog []model.Badge, now time.Time) error {
	today := now.Format(health.DateFormat)

	var prevSteps, prevWorkout int
	prev, err := t.stores.Metrics.GetByDate(member.ID, today)
	if err != nil {
		return err
	}
	if prev != nil {
		prevSteps = prev.Steps
		prevWorkout = prev.WorkoutMinutes
	}

	sample, err := t.source.Sample(ctx, member)
	if err != nil {
		// Keep the last stored readings rather than zeroing the day.
		t.logger.Warn("sample source", "member_id", member.ID, "error", err)
		return nil
	}

	m := model.DailyMetrics{MemberID: member.ID, Date: today}
	if prev != nil {
		m = *prev
	}
	simulate.Apply(&m, sample)

	saved, err := t.stores.Metrics.Upsert(m)
	if err != nil {
		return err
	}

	streak, err := t.streakFor(member, now)
	if err != nil {
		return err
	}

	if err := t.evaluateBadges(member, *saved, streak, catalog, now); err != nil {
		return err
	}

	t.creditPet(member.ID, saved.Steps-prevSteps, saved.WorkoutMinutes-prevWorkout, now)
	if prev == nil || !sameReadings(*prev, *saved) {
		t.enqueueSync(saved)
	}

	t.hub.Broadcast(websocket.NewMemberMessage("metrics", "updated", saved.ID, member.ID, map[string]any{
		"score":  health.Score(health.InputFromMetrics(*saved)),
		"streak": streak,
	}))
	return nil
}

func (t *Tracker) streakFor(member model.FamilyMember, now time.Time) (int, error) {
	from := now.AddDate(0, 0, -streakWindowDays).Format(health.DateFormat)
	history, err := t.stores.Metrics.ListRange(member.ID, from, now.Format(health.DateFormat))
	if err != nil {
		return 0, err
	}
	return health.Streak(history, member.StepGoal, now), nil
}

func (t *Tracker) evaluateBadges(member model.FamilyMember, m model.DailyMetrics, streak int, catalog []model.Badge, now time.Time) error {
	unlocked, err := t.stores.Badges.UnlockedIDs(member.ID)
	if err != nil {
		return err
	}

	for _, u := range health.EvaluateBadges(m, streak, catalog, unlocked, now) {
		if err := t.stores.Badges.Unlock(u.BadgeID, u.MemberID, u.UnlockedAt); err != nil {
			return err
		}
		t.hub.Broadcast(websocket.NewMemberMessage("badge", "unlocked", u.BadgeID, member.ID, nil))
	}
	return nil
}

// creditPet converts new activity into pet XP. Pet trouble never fails
// the member update.
func (t *Tracker) creditPet(memberID int64, stepsDelta, workoutDelta int, now time.Time) {
	p, err := t.stores.Pets.GetByMember(memberID)
	if err != nil {
		t.logger.Warn("load pet", "member_id", memberID, "error", err)
		return
	}
	if p == nil {
		return
	}

	pet.ApplyDecay(p, now)
	pet.CreditActivity(p, stepsDelta, workoutDelta)
	if err := t.stores.Pets.Save(p); err != nil {
		t.logger.Warn("save pet", "member_id", memberID, "error", err)
	}
}

// sameReadings reports whether two rows carry identical measurements,
// ignoring bookkeeping columns. Unchanged rows are not re-journaled.
func sameReadings(a, b model.DailyMetrics) bool {
	return a.Steps == b.Steps &&
		a.Calories == b.Calories &&
		a.DistanceKM == b.DistanceKM &&
		a.RestingHeartRate == b.RestingHeartRate &&
		a.SleepHours == b.SleepHours &&
		a.WorkoutMinutes == b.WorkoutMinutes &&
		a.MoodScore == b.MoodScore &&
		a.WaterLiters == b.WaterLiters
}

func (t *Tracker) enqueueSync(m *model.DailyMetrics) {
	if t.stores.Journal == nil {
		return
	}
	payload, err := json.Marshal(m)
	if err != nil {
		t.logger.Warn("marshal metrics for sync", "error", err)
		return
	}
	if _, err := t.stores.Journal.Enqueue("daily_metrics", m.ID, string(payload)); err != nil {
		t.logger.Warn("enqueue sync record", "error", err)
	}
}

// updateChallenges recomputes every active challenge participant's
// progress from stored metrics.
func (t *Tracker) updateChallenges(now time.Time) {
	active, err := t.stores.Challenges.ListActive(now)
	if err != nil {
		t.logger.Error("list active challenges", "error", err)
		return
	}

	for _, c := range active {
		participants, err := t.stores.Challenges.Participants(c.ID)
		if err != nil {
			t.logger.Error("list participants", "challenge_id", c.ID, "error", err)
			continue
		}

		from := c.StartsAt.Format(health.DateFormat)
		changed := false
		for _, p := range participants {
			total, err := t.stores.Metrics.SumSince(p.MemberID, c.Metric, from)
			if err != nil {
				t.logger.Error("sum challenge metric", "challenge_id", c.ID, "member_id", p.MemberID, "error", err)
				continue
			}
			if total == p.Progress {
				continue
			}
			if err := t.stores.Challenges.SetProgress(c.ID, p.MemberID, total); err != nil {
				t.logger.Error("set progress", "challenge_id", c.ID, "member_id", p.MemberID, "error", err)
				continue
			}
			changed = true
		}

		if changed {
			t.hub.Broadcast(websocket.NewMessage("challenge", "updated", c.ID, nil))
		}
	}
}
