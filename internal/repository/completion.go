package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
)

type CompletionRepository interface {
	Insert(completion *model.HabitCompletion) error
	ByHabit(habitID string, limit int) ([]*model.HabitCompletion, error)
	CountByUser(userID string) (int, error)
	DeleteByHabit(habitID string) (int64, error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Insert(completion *model.HabitCompletion) error {
	if completion.ID == "" {
		completion.ID = uuid.New().String()
	}

	query := `INSERT INTO habit_completions (id, habit_id, user_id, completed_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query,
		completion.ID,
		completion.HabitID,
		completion.UserID,
		completion.CompletedAt,
	)

	return err
}

func (r *completionRepository) ByHabit(habitID string, limit int) ([]*model.HabitCompletion, error) {
	var completions []*model.HabitCompletion
	query := `SELECT * FROM habit_completions WHERE habit_id = $1 ORDER BY completed_at DESC LIMIT $2`

	err := r.db.Select(&completions, query, habitID, limit)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

func (r *completionRepository) CountByUser(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM habit_completions WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// DeleteByHabit wipes a habit's completion history. The caller is expected to
// reset the analytics aggregate alongside.
func (r *completionRepository) DeleteByHabit(habitID string) (int64, error) {
	query := `DELETE FROM habit_completions WHERE habit_id = $1`

	result, err := r.db.Exec(query, habitID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
