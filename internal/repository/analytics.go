package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAnalyticsNotFound = errors.New("habit analytics not found")
)

type AnalyticsRepository interface {
	ByHabitID(habitID string) (*model.HabitAnalytics, error)
	Save(analytics *model.HabitAnalytics) error
}

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) ByHabitID(habitID string) (*model.HabitAnalytics, error) {
	analytics := &model.HabitAnalytics{}
	query := `SELECT * FROM habit_analytics WHERE habit_id = $1`

	err := r.db.Get(analytics, query, habitID)
	if err == sql.ErrNoRows {
		return nil, ErrAnalyticsNotFound
	}

	return analytics, err
}

// Save upserts the aggregate. Works on both SQLite and PostgreSQL via
// ON CONFLICT on the habit_id primary key.
func (r *analyticsRepository) Save(analytics *model.HabitAnalytics) error {
	analytics.UpdatedAt = time.Now()

	query := `INSERT INTO habit_analytics (habit_id, total_completions, current_streak, longest_streak, last_completed, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (habit_id) DO UPDATE SET
	              total_completions = excluded.total_completions,
	              current_streak = excluded.current_streak,
	              longest_streak = excluded.longest_streak,
	              last_completed = excluded.last_completed,
	              updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		analytics.HabitID,
		analytics.TotalCompletions,
		analytics.CurrentStreak,
		analytics.LongestStreak,
		analytics.LastCompleted,
		analytics.UpdatedAt,
	)

	return err
}
