package model

import (
	"time"
)

// HabitCompletion is an append-only completion event. Rows are only ever
// inserted, or bulk-deleted when a habit's history is reset.
type HabitCompletion struct {
	ID          string    `db:"id"`
	HabitID     string    `db:"habit_id"`
	UserID      string    `db:"user_id"`
	CompletedAt time.Time `db:"completed_at"`
}
