package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationPlanAccessGranted NotificationType = "PLAN_ACCESS_GRANTED"
)

// Notification records an event addressed to a user, e.g. being granted access
// to a plan. Only the recipient can mark it read.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index" json:"recipient_id"`
	ActorID     uuid.UUID        `gorm:"type:uuid;not null" json:"actor_id"`
	Type        NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	ResourceID  uuid.UUID        `gorm:"type:uuid;not null" json:"resource_id"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
