package health

// Ratio returns current/goal clamped to [0, 1], for progress rings and
// bars. A non-positive goal yields 0 rather than dividing by it.
func Ratio(current, goal float64) float64 {
	if goal <= 0 || current <= 0 {
		return 0
	}
	r := current / goal
	if r > 1 {
		return 1
	}
	return r
}

// CompletionPercent returns total/target as a percentage clamped to
// [0, 100], even when cumulative progress overshoots the target.
func CompletionPercent(total, target float64) float64 {
	return Ratio(total, target) * 100
}
