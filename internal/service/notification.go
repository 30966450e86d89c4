package service

import (
	"errors"
	"fmt"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
)

var (
	ErrEmptyNotification = errors.New("notification message is required")
)

type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(userID, message string) (*model.Notification, error) {
	if message == "" {
		return nil, ErrEmptyNotification
	}
	if len(message) > 500 {
		return nil, errors.New("notification message is too long (max 500 characters)")
	}

	notification := &model.Notification{
		UserID:  userID,
		Message: message,
	}

	err := s.repo.Create(notification)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

func (s *NotificationService) ByUser(userID string) ([]*model.Notification, error) {
	return s.repo.ByUser(userID)
}

func (s *NotificationService) MarkRead(userID, notificationID string) error {
	return s.repo.MarkRead(userID, notificationID)
}

func (s *NotificationService) Clear(userID string) error {
	return s.repo.Clear(userID)
}
