package model

import (
	"time"
)

// HabitReminder is a per-habit reminder slot. ReminderTime is a wall-clock
// "HH:MM" string so it stays timezone-agnostic across drivers.
type HabitReminder struct {
	ID           string    `db:"id"`
	HabitID      string    `db:"habit_id"`
	ReminderTime string    `db:"reminder_time"`
	Message      string    `db:"message"`
	CreatedAt    time.Time `db:"created_at"`
}
