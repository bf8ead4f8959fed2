package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
)

// NotificationService lists and marks a user's notifications. Creation happens
// as a side effect of sharing, in SharingService.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uuid.UUID) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByRecipient(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read. Marking a
// notification that is not addressed to the user is a silent no-op.
func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(id, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all of the user's unread notifications as read.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
