package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/models"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts a notification
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByRecipient lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByRecipient(recipientID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Preload("Actor").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one notification as read, scoped to the recipient so a user
// cannot mark someone else's notification.
func (r *GormNotificationRepository) MarkRead(id, recipientID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true).Error
}

// MarkAllRead marks all of the recipient's unread notifications as read
func (r *GormNotificationRepository) MarkAllRead(recipientID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
