package health

import (
	"time"

	"github.com/dukerupert/tookish/internal/model"
)

// DateFormat is the storage format for daily metric dates.
const DateFormat = "2006-01-02"

// Streak counts consecutive days ending today (or yesterday, if today's
// goal has not been met yet) on which the member's steps reached goal.
// History may be unordered and sparse; a missing day breaks the streak.
func Streak(history []model.DailyMetrics, stepGoal int, today time.Time) int {
	if stepGoal <= 0 {
		return 0
	}

	met := make(map[string]bool, len(history))
	for _, m := range history {
		if m.Steps >= stepGoal {
			met[m.Date] = true
		}
	}

	day := startOfDay(today)
	if !met[day.Format(DateFormat)] {
		// Today isn't over; an unmet today doesn't break yesterday's run.
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for met[day.Format(DateFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
