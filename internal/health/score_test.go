package health

import "testing"

func TestScorePerfectDay(t *testing.T) {
	in := ScoreInput{
		Steps:            15000,
		RestingHeartRate: 60,
		SleepHours:       8,
		WorkoutMinutes:   60,
		MoodScore:        10,
		WaterLiters:      3,
	}
	if got := Score(in); got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
}

func TestScoreWorkedExample(t *testing.T) {
	// moodScore=9, steps=11000, heartRate=70, sleep=7.5, workoutMinutes=35, water=2.6
	in := ScoreInput{
		Steps:            11000,
		RestingHeartRate: 70,
		SleepHours:       7.5,
		WorkoutMinutes:   35,
		MoodScore:        9,
		WaterLiters:      2.6,
	}
	got := Score(in)
	if got > 100 {
		t.Fatalf("score = %d, want <= 100", got)
	}
	// 22 + 15 + 20 + 12 + 15 + 10
	if got != 94 {
		t.Errorf("score = %d, want 94", got)
	}
}

func TestScoreZeroInputs(t *testing.T) {
	if got := Score(ScoreInput{}); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestScoreOutOfRangeInputs(t *testing.T) {
	cases := []struct {
		name string
		in   ScoreInput
	}{
		{"negative steps", ScoreInput{Steps: -5000}},
		{"zero heart rate", ScoreInput{RestingHeartRate: 0}},
		{"absurd heart rate", ScoreInput{RestingHeartRate: 500}},
		{"negative sleep", ScoreInput{SleepHours: -3}},
		{"mood above scale", ScoreInput{MoodScore: 99}},
		{"negative water", ScoreInput{WaterLiters: -1.5}},
		{"everything huge", ScoreInput{
			Steps: 1 << 30, RestingHeartRate: 60, SleepHours: 8,
			WorkoutMinutes: 10000, MoodScore: 1000, WaterLiters: 50,
		}},
	}
	for _, tc := range cases {
		got := Score(tc.in)
		if got < 0 || got > 100 {
			t.Errorf("%s: score = %d, want within [0, 100]", tc.name, got)
		}
	}
}

func TestStepsSubScoreBands(t *testing.T) {
	cases := []struct {
		steps int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 2},
		{2500, 6},
		{5000, 12},
		{7500, 18},
		{9999, 18},
		{10000, 22},
		{12000, 25},
		{50000, 25},
	}
	for _, tc := range cases {
		if got := stepsSubScore(tc.steps); got != tc.want {
			t.Errorf("stepsSubScore(%d) = %d, want %d", tc.steps, got, tc.want)
		}
	}
}

func TestHeartSubScoreBands(t *testing.T) {
	cases := []struct {
		bpm  int
		want int
	}{
		{0, 0},
		{-10, 0},
		{60, 15},
		{70, 15},
		{71, 10},
		{45, 10},
		{85, 6},
		{120, 3},
	}
	for _, tc := range cases {
		if got := heartSubScore(tc.bpm); got != tc.want {
			t.Errorf("heartSubScore(%d) = %d, want %d", tc.bpm, got, tc.want)
		}
	}
}

func TestSleepSubScoreBands(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{0, 0},
		{2, 5},
		{5.5, 10},
		{6.5, 15},
		{7.5, 20},
		{9, 20},
		{9.5, 15},
		{14, 5},
	}
	for _, tc := range cases {
		if got := sleepSubScore(tc.hours); got != tc.want {
			t.Errorf("sleepSubScore(%v) = %d, want %d", tc.hours, got, tc.want)
		}
	}
}

func TestBreakdownMatchesScore(t *testing.T) {
	in := ScoreInput{
		Steps:            8000,
		RestingHeartRate: 75,
		SleepHours:       6.2,
		WorkoutMinutes:   20,
		MoodScore:        5,
		WaterLiters:      1.8,
	}
	sub := Breakdown(in)
	sum := sub.Steps + sub.Heart + sub.Sleep + sub.Workout + sub.Mood + sub.Water
	if got := Score(in); got != sum {
		t.Errorf("Score = %d, breakdown sum = %d", got, sum)
	}
}
