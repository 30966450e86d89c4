package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	ByCategory(userID, category string) ([]*model.Goal, error)
	ReplaceCategory(userID, category string, items []model.GoalItem) error
	DeleteAll(userID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) ByCategory(userID, category string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 AND category = $2 ORDER BY sort_order ASC`

	err := r.db.Select(&goals, query, userID, category)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// ReplaceCategory swaps the entire goal set for one (user, category) pair:
// delete everything, then bulk-insert the new list with dense sort_order
// starting at 0. A single transaction closes the loss window between the
// delete and the insert; a failed insert rolls the delete back too.
func (r *goalRepository) ReplaceCategory(userID, category string, items []model.GoalItem) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goals WHERE user_id = $1 AND category = $2`, userID, category)
	if err != nil {
		return fmt.Errorf("failed to clear category: %w", err)
	}

	query := `INSERT INTO goals (id, user_id, category, text, completed, sort_order, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	for i, item := range items {
		_, err := tx.Exec(query, uuid.New().String(), userID, category, item.Text, item.Completed, i, now)
		if err != nil {
			return fmt.Errorf("failed to insert goal %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *goalRepository) DeleteAll(userID string) error {
	query := `DELETE FROM goals WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
