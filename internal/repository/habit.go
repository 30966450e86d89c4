package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

type HabitRepository interface {
	Create(habit *model.Habit) error
	ByID(userID, habitID string, withDeleted bool) (*model.Habit, error)
	Habits(userID string, withDeleted bool) ([]*model.Habit, error)
	Update(habit *model.Habit) error
	SoftDelete(userID, habitID string) error
	Restore(userID, habitID string) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(habit *model.Habit) error {
	query := `INSERT INTO habits (id, user_id, name, frequency, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Frequency,
		habit.Active,
		habit.CreatedAt,
		habit.UpdatedAt,
	)

	return err
}

func (r *habitRepository) ByID(userID, habitID string, withDeleted bool) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`
	if !withDeleted {
		query += ` AND deleted_at IS NULL`
	}

	err := r.db.Get(habit, query, habitID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}

	return habit, err
}

func (r *habitRepository) Habits(userID string, withDeleted bool) ([]*model.Habit, error) {
	var habits []*model.Habit
	query := `SELECT * FROM habits WHERE user_id = $1`
	if !withDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY created_at ASC`

	err := r.db.Select(&habits, query, userID)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) Update(habit *model.Habit) error {
	query := `UPDATE habits SET name = $1, frequency = $2, active = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6 AND deleted_at IS NULL`

	result, err := r.db.Exec(query,
		habit.Name,
		habit.Frequency,
		habit.Active,
		time.Now(),
		habit.ID,
		habit.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) SoftDelete(userID, habitID string) error {
	now := time.Now()
	query := `UPDATE habits SET deleted_at = $1, active = FALSE, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(query, now, habitID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) Restore(userID, habitID string) error {
	query := `UPDATE habits SET deleted_at = NULL, active = TRUE, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND deleted_at IS NOT NULL`

	result, err := r.db.Exec(query, time.Now(), habitID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}
