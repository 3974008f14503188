package domain

import "time"

// StreakDateFormat is the canonical day encoding for streak rows.
const StreakDateFormat = "2006-01-02"

// Streak is a per-user, per-day completion tally. One row exists per
// (user, day) pair; completing tasks increments the tally for the day the
// completion happened.
type Streak struct {
	Timestamps
	UserID         string `json:"user_id"`
	Date           string `json:"date"` // YYYY-MM-DD
	TasksCompleted int    `json:"tasks_completed"`
	IsCompletedDay bool   `json:"is_completed_day"`
}

// StreakDay formats a time as a streak date key.
func StreakDay(t time.Time) string {
	return t.Format(StreakDateFormat)
}
