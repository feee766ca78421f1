package tracker

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/tookish/internal/database"
	"github.com/dukerupert/tookish/internal/health"
	"github.com/dukerupert/tookish/internal/model"
	"github.com/dukerupert/tookish/internal/simulate"
	"github.com/dukerupert/tookish/internal/store"
	"github.com/dukerupert/tookish/internal/websocket"
)

func setupTracker(t *testing.T, source simulate.Source) (*Tracker, Stores, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := Stores{
		Members:    store.NewMemberStore(db),
		Metrics:    store.NewMetricStore(db),
		Badges:     store.NewBadgeStore(db),
		Challenges: store.NewChallengeStore(db),
		Pets:       store.NewPetStore(db),
		Journal:    store.NewSyncStore(db),
	}
	return New(source, stores, websocket.NewHub(logger), logger, time.Minute), stores, db
}

func TestTickPersistsMetricsAndUnlocksBadges(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, err := stores.Members.Create("Sam", "son", "#10B981", "🥾")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	source.Samples[member.ID] = simulate.Sample{
		Steps: 12500, Calories: 540, DistanceKM: 9.1,
		RestingHeartRate: 62, SleepHours: 7.5, WorkoutMinutes: 35,
		MoodScore: 8, WaterLiters: 2.2,
	}

	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	tr.Tick(context.Background(), now)

	m, err := stores.Metrics.GetByDate(member.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	if m == nil || m.Steps != 12500 {
		t.Fatalf("metrics = %+v, want 12500 steps", m)
	}

	// 12500 steps passes the 10k steps badge threshold.
	unlocked, err := stores.Badges.UnlockedIDs(member.ID)
	if err != nil {
		t.Fatalf("unlocked ids: %v", err)
	}
	if len(unlocked) == 0 {
		t.Error("expected at least one badge unlock")
	}

	pending, err := stores.Journal.CountPending()
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending == 0 {
		t.Error("expected a sync journal entry")
	}
}

func TestTickSourceFailureKeepsLastData(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, _ := stores.Members.Create("Merry", "son", "#6366F1", "🌲")
	if _, err := stores.Metrics.Upsert(model.DailyMetrics{
		MemberID: member.ID, Date: "2026-03-10", Steps: 9000,
	}); err != nil {
		t.Fatalf("seed metrics: %v", err)
	}

	tr.source = failingSource{}
	tr.Tick(context.Background(), time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC))

	m, _ := stores.Metrics.GetByDate(member.ID, "2026-03-10")
	if m == nil || m.Steps != 9000 {
		t.Fatalf("metrics = %+v, want 9000 steps preserved", m)
	}
}

func TestTickUpdatesChallengeProgress(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, _ := stores.Members.Create("Frodo", "father", "#3B82F6", "💍")
	source.Samples[member.ID] = simulate.Sample{Steps: 8000, Calories: 300}

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ch, err := stores.Challenges.Create("March Steps", "", "steps", 50000,
		now.AddDate(0, 0, -2), now.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	if err := stores.Challenges.Join(ch.ID, member.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	tr.Tick(context.Background(), now)

	participants, err := stores.Challenges.Participants(ch.ID)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(participants) != 1 || participants[0].Progress != 8000 {
		t.Fatalf("participants = %+v, want progress 8000", participants)
	}
}

func TestTickCreditsPet(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, _ := stores.Members.Create("Pippin", "son", "#F59E0B", "🍄")
	if _, err := stores.Pets.Create(member.ID, "Biscuit", "pup"); err != nil {
		t.Fatalf("create pet: %v", err)
	}

	// 4000 steps and 10 workout minutes grant 30 XP.
	source.Samples[member.ID] = simulate.Sample{Steps: 4000, WorkoutMinutes: 10}
	tr.Tick(context.Background(), time.Now())

	p, err := stores.Pets.GetByMember(member.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if p.XP != 30 {
		t.Errorf("pet xp = %d, want 30", p.XP)
	}
}

func TestMinuteTicksDecayPet(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, _ := stores.Members.Create("Bilbo", "father", "#8B5CF6", "📖")
	if _, err := stores.Pets.Create(member.ID, "Smudge", "kit"); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	source.Samples[member.ID] = simulate.Sample{}

	// Six hours of minute-interval ticks. Every tick re-saves the pet,
	// which must not reset the decay clock.
	base := time.Now()
	for i := 1; i <= 6*60+2; i++ {
		tr.Tick(context.Background(), base.Add(time.Duration(i)*time.Minute))
	}

	p, err := stores.Pets.GetByMember(member.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	// Hourly decay of 4/3/2 from the 70/70/70 defaults over six hours.
	if p.Hunger != 46 {
		t.Errorf("hunger = %d, want 46", p.Hunger)
	}
	if p.Happiness != 52 {
		t.Errorf("happiness = %d, want 52", p.Happiness)
	}
	if p.Energy != 58 {
		t.Errorf("energy = %d, want 58", p.Energy)
	}
}

func TestTickJournalsOnlyChangedRows(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, _ := stores.Members.Create("Fatty", "son", "#EF4444", "🧀")
	source.Samples[member.ID] = simulate.Sample{Steps: 5000}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr.Tick(context.Background(), now)
	tr.Tick(context.Background(), now.Add(time.Minute))
	tr.Tick(context.Background(), now.Add(2*time.Minute))

	pending, err := stores.Journal.CountPending()
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 1 {
		t.Errorf("pending = %d, want 1 entry for an unchanged row", pending)
	}
}

func TestTickWithoutJournal(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, db := setupTracker(t, source)
	tr.stores.Journal = nil

	member, _ := stores.Members.Create("Lobelia", "mother", "#14B8A6", "🥄")
	source.Samples[member.ID] = simulate.Sample{Steps: 5000}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr.Tick(context.Background(), now)

	m, err := stores.Metrics.GetByDate(member.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	if m == nil || m.Steps != 5000 {
		t.Fatalf("metrics = %+v, want 5000 steps", m)
	}

	pending, err := store.NewSyncStore(db).CountPending()
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 0 {
		t.Errorf("pending = %d, want 0 with journaling off", pending)
	}
}

func TestStreakFor(t *testing.T) {
	source := &simulate.Static{Samples: map[int64]simulate.Sample{}}
	tr, stores, _ := setupTracker(t, source)

	member, _ := stores.Members.Create("Sam", "son", "#10B981", "🥕")
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		date := now.AddDate(0, 0, -i).Format(health.DateFormat)
		stores.Metrics.Upsert(model.DailyMetrics{MemberID: member.ID, Date: date, Steps: 11000})
	}

	streak, err := tr.streakFor(*member, now)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if streak != 3 {
		t.Errorf("streak = %d, want 3", streak)
	}
}

type failingSource struct{}

func (failingSource) Sample(ctx context.Context, member model.FamilyMember) (simulate.Sample, error) {
	return simulate.Sample{}, context.DeadlineExceeded
}
