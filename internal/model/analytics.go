package model

import (
	"time"
)

// HabitAnalytics is the derived per-habit aggregate, keyed 1:1 with a habit.
// It is maintained incrementally as completions arrive, never by rescanning
// the full completion history.
type HabitAnalytics struct {
	HabitID          string     `db:"habit_id"`
	TotalCompletions int        `db:"total_completions"`
	CurrentStreak    int        `db:"current_streak"`
	LongestStreak    int        `db:"longest_streak"`
	LastCompleted    *time.Time `db:"last_completed"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// RecordCompletion folds a new completion instant into the aggregate and
// reports whether the aggregate changed.
//
// A completion earlier than the last recorded one is ignored: late or
// duplicate events must not corrupt the streak. A completion on the same
// calendar day as the last one only refreshes LastCompleted. A completion
// exactly one calendar day later extends the streak; any larger gap starts
// a new streak of 1.
func (a *HabitAnalytics) RecordCompletion(completedAt time.Time) bool {
	if a.LastCompleted != nil {
		last := *a.LastCompleted
		if completedAt.Before(last) {
			return false
		}

		switch days := calendarDaysBetween(last, completedAt); {
		case days == 0:
			a.LastCompleted = &completedAt
			return true
		case days == 1:
			a.CurrentStreak++
		default:
			a.CurrentStreak = 1
		}
	} else {
		a.CurrentStreak = 1
	}

	a.TotalCompletions++
	if a.CurrentStreak > a.LongestStreak {
		a.LongestStreak = a.CurrentStreak
	}
	a.LastCompleted = &completedAt
	return true
}

// Reset zeroes the aggregate after a bulk delete of the completion history.
func (a *HabitAnalytics) Reset() {
	a.TotalCompletions = 0
	a.CurrentStreak = 0
	a.LongestStreak = 0
	a.LastCompleted = nil
}

// calendarDaysBetween returns the whole calendar days from a to b,
// ignoring the time of day.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}
