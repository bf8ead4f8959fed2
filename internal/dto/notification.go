package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID         uuid.UUID               `json:"id"`
	Type       models.NotificationType `json:"type"`
	ResourceID uuid.UUID               `json:"resource_id"`
	Actor      *UserDTO                `json:"actor,omitempty"`
	IsRead     bool                    `json:"is_read"`
	CreatedAt  time.Time               `json:"created_at"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	Author    *UserDTO  `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:         notification.ID,
		Type:       notification.Type,
		ResourceID: notification.ResourceID,
		IsRead:     notification.IsRead,
		CreatedAt:  notification.CreatedAt,
	}

	if notification.Actor.ID != uuid.Nil {
		actor := ToUserDTO(notification.Actor)
		dto.Actor = &actor
	}

	return dto
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}

	if comment.Author.ID != uuid.Nil {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}
