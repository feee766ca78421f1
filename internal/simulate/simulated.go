package simulate

import (
	"context"
	"math/rand"
	"sync"

	"github.com/dukerupert/tookish/internal/model"
)

// Simulated is a Source that walks each member's counters upward over
// the course of a day, roughly proportional to their step goal. Per-day
// constants (sleep, resting heart rate, mood) are stable across samples
// so repeated polls look like a real device, not noise.
type Simulated struct {
	mu    sync.Mutex
	rng   *rand.Rand
	state map[int64]*memberState
}

type memberState struct {
	steps       int
	sleepHours  float64
	restingHR   int
	mood        int
	water       float64
	workoutMins int
}

// NewSimulated creates a simulated source. Pass a fixed seed for
// reproducible runs.
func NewSimulated(seed int64) *Simulated {
	return &Simulated{
		rng:   rand.New(rand.NewSource(seed)),
		state: make(map[int64]*memberState),
	}
}

func (s *Simulated) Sample(ctx context.Context, member model.FamilyMember) (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state[member.ID]
	if !ok {
		st = &memberState{
			sleepHours: 5.5 + s.rng.Float64()*3.5,
			restingHR:  52 + s.rng.Intn(30),
			mood:       4 + s.rng.Intn(7),
		}
		s.state[member.ID] = st
	}

	goal := member.StepGoal
	if goal <= 0 {
		goal = 10000
	}

	// Each poll adds a burst of activity, occasionally a quiet stretch.
	if s.rng.Intn(4) > 0 {
		st.steps += s.rng.Intn(goal/20 + 1)
	}
	if s.rng.Intn(10) == 0 {
		st.workoutMins += 5 + s.rng.Intn(15)
	}
	st.water += s.rng.Float64() * 0.2

	return Sample{
		Steps:            st.steps,
		Calories:         st.steps / 22,
		DistanceKM:       float64(st.steps) * 0.00075,
		RestingHeartRate: st.restingHR,
		SleepHours:       st.sleepHours,
		WorkoutMinutes:   st.workoutMins,
		MoodScore:        st.mood,
		WaterLiters:      st.water,
	}, nil
}

// Reset clears accumulated state, as at a day rollover.
func (s *Simulated) Reset() {
	s.mu.Lock()
	s.state = make(map[int64]*memberState)
	s.mu.Unlock()
}

// Static is a Source returning fixed samples keyed by member ID.
// Members without an entry get the zero sample.
type Static struct {
	Samples map[int64]Sample
}

func (s *Static) Sample(ctx context.Context, member model.FamilyMember) (Sample, error) {
	return s.Samples[member.ID], nil
}
