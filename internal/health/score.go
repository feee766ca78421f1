package health

import "github.com/dukerupert/tookish/internal/model"

// Sub-score weights. They sum to 100, so a perfect day in every
// category yields exactly 100 before clamping.
const (
	stepsWeight   = 25
	heartWeight   = 15
	sleepWeight   = 20
	workoutWeight = 15
	moodWeight    = 15
	waterWeight   = 10
)

// ScoreInput holds the raw daily readings the score is derived from.
// Zero or negative readings score zero for that category.
type ScoreInput struct {
	Steps            int
	RestingHeartRate int
	SleepHours       float64
	WorkoutMinutes   int
	MoodScore        int
	WaterLiters      float64
}

// SubScores is the per-category breakdown of a health score.
type SubScores struct {
	Steps   int `json:"steps"`
	Heart   int `json:"heart"`
	Sleep   int `json:"sleep"`
	Workout int `json:"workout"`
	Mood    int `json:"mood"`
	Water   int `json:"water"`
}

// InputFromMetrics builds a ScoreInput from a stored daily metrics row.
func InputFromMetrics(m model.DailyMetrics) ScoreInput {
	return ScoreInput{
		Steps:            m.Steps,
		RestingHeartRate: m.RestingHeartRate,
		SleepHours:       m.SleepHours,
		WorkoutMinutes:   m.WorkoutMinutes,
		MoodScore:        m.MoodScore,
		WaterLiters:      m.WaterLiters,
	}
}

// Score computes the 0-100 composite health score for one day's readings.
func Score(in ScoreInput) int {
	sub := Breakdown(in)
	total := sub.Steps + sub.Heart + sub.Sleep + sub.Workout + sub.Mood + sub.Water
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

// Breakdown computes each banded sub-score independently.
func Breakdown(in ScoreInput) SubScores {
	return SubScores{
		Steps:   stepsSubScore(in.Steps),
		Heart:   heartSubScore(in.RestingHeartRate),
		Sleep:   sleepSubScore(in.SleepHours),
		Workout: workoutSubScore(in.WorkoutMinutes),
		Mood:    moodSubScore(in.MoodScore),
		Water:   waterSubScore(in.WaterLiters),
	}
}

func stepsSubScore(steps int) int {
	switch {
	case steps >= 12000:
		return stepsWeight
	case steps >= 10000:
		return 22
	case steps >= 7500:
		return 18
	case steps >= 5000:
		return 12
	case steps >= 2500:
		return 6
	case steps > 0:
		return 2
	default:
		return 0
	}
}

// heartSubScore bands a resting heart rate. A reading of 0 means no
// measurement, not a perfect heart.
func heartSubScore(bpm int) int {
	switch {
	case bpm <= 0:
		return 0
	case bpm >= 50 && bpm <= 70:
		return heartWeight
	case bpm >= 40 && bpm <= 80:
		return 10
	case bpm <= 90:
		return 6
	default:
		return 3
	}
}

func sleepSubScore(hours float64) int {
	switch {
	case hours >= 7 && hours <= 9:
		return sleepWeight
	case hours >= 6 && hours <= 10:
		return 15
	case hours >= 5:
		return 10
	case hours > 0:
		return 5
	default:
		return 0
	}
}

func workoutSubScore(minutes int) int {
	switch {
	case minutes >= 45:
		return workoutWeight
	case minutes >= 30:
		return 12
	case minutes >= 15:
		return 8
	case minutes >= 5:
		return 4
	default:
		return 0
	}
}

func moodSubScore(mood int) int {
	switch {
	case mood >= 8:
		return moodWeight
	case mood >= 6:
		return 11
	case mood >= 4:
		return 7
	case mood >= 1:
		return 3
	default:
		return 0
	}
}

func waterSubScore(liters float64) int {
	switch {
	case liters >= 2.5:
		return waterWeight
	case liters >= 1.5:
		return 7
	case liters >= 0.8:
		return 4
	case liters > 0:
		return 2
	default:
		return 0
	}
}
