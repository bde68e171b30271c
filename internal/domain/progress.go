package domain

import "time"

// DayOf truncates t to midnight UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AdvanceStreak returns the streak after activity on today. Activity the day
// after lastActivity extends the streak, activity on the same day leaves it
// unchanged, and anything else starts a new streak of one.
func AdvanceStreak(current int, lastActivity *time.Time, today time.Time) int {
	if lastActivity == nil {
		return 1
	}
	last := DayOf(*lastActivity)
	day := DayOf(today)
	switch {
	case last.Equal(day):
		return current
	case last.AddDate(0, 0, 1).Equal(day):
		return current + 1
	default:
		return 1
	}
}
