package model

import (
	"time"
)

// Goal is a category-scoped line item. The whole set for a (user, category)
// pair is replaced on every save, with SortOrder reassigned densely from 0.
type Goal struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Category  string    `db:"category"`
	Text      string    `db:"text"`
	Completed bool      `db:"completed"`
	SortOrder int       `db:"sort_order"`
	CreatedAt time.Time `db:"created_at"`
}

// GoalItem is the caller-supplied shape for a replace-all save. Order in the
// slice becomes the stored sort order.
type GoalItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
