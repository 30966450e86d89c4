package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/jmoiron/sqlx"
)

type ReminderRepository interface {
	Create(reminder *model.HabitReminder) error
	ByHabit(habitID string) ([]*model.HabitReminder, error)
	DeleteByHabit(habitID string) error
}

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(reminder *model.HabitReminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}

	query := `INSERT INTO habit_reminders (id, habit_id, reminder_time, message, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		reminder.ID,
		reminder.HabitID,
		reminder.ReminderTime,
		reminder.Message,
		reminder.CreatedAt,
	)

	return err
}

func (r *reminderRepository) ByHabit(habitID string) ([]*model.HabitReminder, error) {
	var reminders []*model.HabitReminder
	query := `SELECT * FROM habit_reminders WHERE habit_id = $1 ORDER BY reminder_time ASC`

	err := r.db.Select(&reminders, query, habitID)
	if err != nil {
		return nil, err
	}

	return reminders, nil
}

func (r *reminderRepository) DeleteByHabit(habitID string) error {
	query := `DELETE FROM habit_reminders WHERE habit_id = $1`
	_, err := r.db.Exec(query, habitID)
	return err
}
