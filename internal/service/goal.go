package service

import (
	"errors"
	"fmt"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
)

var (
	ErrInvalidCategory = errors.New("category must be daily, weekly, monthly or yearly")
	ErrTooManyGoals    = errors.New("too many goals in one category")
	ErrEmptyGoalText   = errors.New("text is required")
)

const maxGoalsPerCategory = 200

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) ByCategory(userID, category string) ([]*model.Goal, error) {
	if !model.ValidFrequency(category) {
		return nil, ErrInvalidCategory
	}

	return s.repo.ByCategory(userID, category)
}

// SaveCategory replaces the full goal list for one category. Callers resend
// the complete desired list every time; anything omitted is gone. Concurrent
// saves are last-writer-wins, which the product accepts.
func (s *GoalService) SaveCategory(userID, category string, items []model.GoalItem) error {
	if !model.ValidFrequency(category) {
		return ErrInvalidCategory
	}
	if len(items) > maxGoalsPerCategory {
		return ErrTooManyGoals
	}

	for i, item := range items {
		if item.Text == "" {
			return fmt.Errorf("goal %d: %w", i, ErrEmptyGoalText)
		}
	}

	return s.repo.ReplaceCategory(userID, category, items)
}

// ResetAll wipes every category for the user.
func (s *GoalService) ResetAll(userID string) error {
	return s.repo.DeleteAll(userID)
}
