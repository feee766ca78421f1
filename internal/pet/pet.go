// Package pet implements the companion-creature rules: stats decay with
// real time, owner activity and interactions restore them, and XP
// accumulates into levels.
package pet

import (
	"time"

	"github.com/dukerupert/tookish/internal/model"
)

const (
	hungerDecayPerHour    = 4
	energyDecayPerHour    = 2
	happinessDecayPerHour = 3

	feedHungerBoost    = 30
	feedHappinessBoost = 5
	playHappinessBoost = 25
	playEnergyCost     = 10
	playXP             = 15

	// One XP per 200 steps plus one per workout minute.
	stepsPerXP = 200
)

// Moods reported on the dashboard, from the average of the three stats.
const (
	MoodThriving  = "thriving"
	MoodContent   = "content"
	MoodGrumpy    = "grumpy"
	MoodMiserable = "miserable"
)

// ApplyDecay ages the pet's stats by whole hours elapsed since its last
// decay. UpdatedAt advances only by the hours consumed, so sub-hour
// remainders accumulate across frequent calls instead of being lost.
func ApplyDecay(p *model.Pet, now time.Time) {
	hours := int(now.Sub(p.UpdatedAt).Hours())
	if hours <= 0 {
		p.Mood = moodFor(p)
		return
	}
	p.Hunger = clampStat(p.Hunger - hours*hungerDecayPerHour)
	p.Energy = clampStat(p.Energy - hours*energyDecayPerHour)
	p.Happiness = clampStat(p.Happiness - hours*happinessDecayPerHour)
	p.UpdatedAt = p.UpdatedAt.Add(time.Duration(hours) * time.Hour)
	p.Mood = moodFor(p)
}

// Feed restores hunger and a little happiness.
func Feed(p *model.Pet, now time.Time) {
	p.Hunger = clampStat(p.Hunger + feedHungerBoost)
	p.Happiness = clampStat(p.Happiness + feedHappinessBoost)
	p.LastFedAt = now
	p.Mood = moodFor(p)
}

// Play restores happiness at the cost of some energy and grants XP.
func Play(p *model.Pet, now time.Time) {
	p.Happiness = clampStat(p.Happiness + playHappinessBoost)
	p.Energy = clampStat(p.Energy - playEnergyCost)
	p.LastPlayedAt = now
	GrantXP(p, playXP)
	p.Mood = moodFor(p)
}

// CreditActivity converts the owner's new activity into pet XP and a
// small happiness/energy lift. Deltas at or below zero are ignored.
func CreditActivity(p *model.Pet, stepsDelta, workoutMinutesDelta int) {
	if stepsDelta < 0 {
		stepsDelta = 0
	}
	if workoutMinutesDelta < 0 {
		workoutMinutesDelta = 0
	}
	xp := stepsDelta/stepsPerXP + workoutMinutesDelta
	if xp == 0 {
		return
	}
	GrantXP(p, xp)
	p.Happiness = clampStat(p.Happiness + xp/5)
	p.Energy = clampStat(p.Energy + xp/10)
	p.Mood = moodFor(p)
}

// GrantXP adds XP and advances the level when the current level's
// requirement is met. Each level costs level*100 XP.
func GrantXP(p *model.Pet, xp int) {
	if xp <= 0 {
		return
	}
	p.XP += xp
	for p.XP >= xpForNextLevel(p.Level) {
		p.XP -= xpForNextLevel(p.Level)
		p.Level++
	}
}

func xpForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}

func moodFor(p *model.Pet) string {
	avg := (p.Hunger + p.Happiness + p.Energy) / 3
	switch {
	case avg >= 75:
		return MoodThriving
	case avg >= 50:
		return MoodContent
	case avg >= 25:
		return MoodGrumpy
	default:
		return MoodMiserable
	}
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
