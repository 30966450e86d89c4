package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
)

var (
	ErrInvalidFrequency = errors.New("frequency must be daily, weekly, monthly or yearly")
	ErrHabitNameEmpty   = errors.New("habit name is required")
)

type HabitService struct {
	repo           repository.HabitRepository
	completionRepo repository.CompletionRepository
	analyticsRepo  repository.AnalyticsRepository
	reminderRepo   repository.ReminderRepository
}

func NewHabitService(
	repo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	analyticsRepo repository.AnalyticsRepository,
	reminderRepo repository.ReminderRepository,
) *HabitService {
	return &HabitService{
		repo:           repo,
		completionRepo: completionRepo,
		analyticsRepo:  analyticsRepo,
		reminderRepo:   reminderRepo,
	}
}

func (s *HabitService) Create(userID, name, frequency string) (*model.Habit, error) {
	if name == "" {
		return nil, ErrHabitNameEmpty
	}
	if frequency == "" {
		frequency = model.FrequencyDaily
	}
	if !model.ValidFrequency(frequency) {
		return nil, ErrInvalidFrequency
	}

	now := time.Now()
	habit := &model.Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Frequency: frequency,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	// Fresh zeroed aggregate so reads never have to special-case a missing row.
	err = s.analyticsRepo.Save(&model.HabitAnalytics{HabitID: habit.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics: %w", err)
	}

	// Default reminder, same as habit creation in the original product.
	reminder := &model.HabitReminder{
		HabitID:      habit.ID,
		ReminderTime: "09:00",
		Message:      fmt.Sprintf("Reminder to complete your %s habit: %s", habit.Frequency, habit.Name),
	}
	err = s.reminderRepo.Create(reminder)
	if err != nil {
		slog.Warn("failed to create default reminder", "error", err, "habit_id", habit.ID)
	}

	return habit, nil
}

func (s *HabitService) ByID(userID, habitID string) (*model.Habit, error) {
	return s.repo.ByID(userID, habitID, false)
}

func (s *HabitService) Habits(userID string) ([]*model.Habit, error) {
	return s.repo.Habits(userID, false)
}

func (s *HabitService) Update(userID, habitID, name, frequency string, active bool) error {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return err
	}

	if name == "" {
		return ErrHabitNameEmpty
	}
	if !model.ValidFrequency(frequency) {
		return ErrInvalidFrequency
	}

	habit.Name = name
	habit.Frequency = frequency
	habit.Active = active

	return s.repo.Update(habit)
}

func (s *HabitService) Delete(userID, habitID string) error {
	return s.repo.SoftDelete(userID, habitID)
}

// Complete records a completion event and folds it into the habit's
// analytics aggregate. The event row is written first; if the aggregate
// rejects the instant as out of order, nothing else changes.
func (s *HabitService) Complete(userID, habitID string, completedAt time.Time) (*model.HabitAnalytics, error) {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return nil, err
	}

	analytics, err := s.analyticsRepo.ByHabitID(habit.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrAnalyticsNotFound) {
			return nil, fmt.Errorf("failed to load analytics: %w", err)
		}
		analytics = &model.HabitAnalytics{HabitID: habit.ID}
	}

	if !analytics.RecordCompletion(completedAt) {
		slog.Debug("out-of-order completion ignored", "habit_id", habit.ID, "completed_at", completedAt)
		return analytics, nil
	}

	completion := &model.HabitCompletion{
		HabitID:     habit.ID,
		UserID:      userID,
		CompletedAt: completedAt,
	}
	err = s.completionRepo.Insert(completion)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	err = s.analyticsRepo.Save(analytics)
	if err != nil {
		return nil, fmt.Errorf("failed to save analytics: %w", err)
	}

	return analytics, nil
}

func (s *HabitService) Analytics(userID, habitID string) (*model.HabitAnalytics, error) {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return nil, err
	}

	analytics, err := s.analyticsRepo.ByHabitID(habit.ID)
	if errors.Is(err, repository.ErrAnalyticsNotFound) {
		return &model.HabitAnalytics{HabitID: habit.ID}, nil
	}
	return analytics, err
}

// ResetHistory bulk-deletes the completion log and zeroes the aggregate.
func (s *HabitService) ResetHistory(userID, habitID string) error {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return err
	}

	deleted, err := s.completionRepo.DeleteByHabit(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}

	analytics := &model.HabitAnalytics{HabitID: habit.ID}
	err = s.analyticsRepo.Save(analytics)
	if err != nil {
		return fmt.Errorf("failed to reset analytics: %w", err)
	}

	slog.Info("habit history reset", "habit_id", habit.ID, "completions_deleted", deleted)
	return nil
}

func (s *HabitService) Completions(userID, habitID string, limit int) ([]*model.HabitCompletion, error) {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	return s.completionRepo.ByHabit(habit.ID, limit)
}

func (s *HabitService) Reminders(userID, habitID string) ([]*model.HabitReminder, error) {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return nil, err
	}

	return s.reminderRepo.ByHabit(habit.ID)
}

func (s *HabitService) AddReminder(userID, habitID, reminderTime, message string) (*model.HabitReminder, error) {
	habit, err := s.repo.ByID(userID, habitID, false)
	if err != nil {
		return nil, err
	}

	_, err = time.Parse("15:04", reminderTime)
	if err != nil {
		return nil, errors.New("reminder time must be in HH:MM format")
	}

	if message == "" {
		message = fmt.Sprintf("Reminder to complete your %s habit: %s", habit.Frequency, habit.Name)
	}

	reminder := &model.HabitReminder{
		HabitID:      habit.ID,
		ReminderTime: reminderTime,
		Message:      message,
	}
	err = s.reminderRepo.Create(reminder)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return reminder, nil
}
