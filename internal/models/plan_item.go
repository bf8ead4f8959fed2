package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanItemType string

const (
	ItemTypeTask    PlanItemType = "task"
	ItemTypeContact PlanItemType = "contact"
)

type TaskItemStatus string

const (
	TaskItemStatusPending    TaskItemStatus = "pending"
	TaskItemStatusInProgress TaskItemStatus = "in-progress"
	TaskItemStatusReview     TaskItemStatus = "review"
	TaskItemStatusCompleted  TaskItemStatus = "completed"
)

type TaskItemPriority string

const (
	TaskItemPriorityLow      TaskItemPriority = "low"
	TaskItemPriorityMedium   TaskItemPriority = "medium"
	TaskItemPriorityHigh     TaskItemPriority = "high"
	TaskItemPriorityCritical TaskItemPriority = "critical"
)

// TaskContent is the payload of a plan item with type "task".
type TaskContent struct {
	Title    string           `json:"title"`
	Status   TaskItemStatus   `json:"status"`
	Priority TaskItemPriority `json:"priority"`
	Link     string           `json:"link,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// ContactContent is the payload of a plan item with type "contact".
type ContactContent struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// PlanItem is a single task or contact entry within a plan. Content holds the
// JSON payload matching Type; items are replaced wholesale on every plan edit,
// never patched row by row.
type PlanItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	PlanID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Type      PlanItemType   `gorm:"type:varchar(20);not null" json:"type"`
	Content   datatypes.JSON `gorm:"not null" json:"content"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
}

func (i *PlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TaskContent decodes the item payload as a task. The item type must be "task".
func (i *PlanItem) TaskContent() (*TaskContent, error) {
	if i.Type != ItemTypeTask {
		return nil, fmt.Errorf("plan item %s is not a task", i.ID)
	}
	var content TaskContent
	if err := json.Unmarshal(i.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode task content: %w", err)
	}
	return &content, nil
}

// ContactContent decodes the item payload as a contact. The item type must be "contact".
func (i *PlanItem) ContactContent() (*ContactContent, error) {
	if i.Type != ItemTypeContact {
		return nil, fmt.Errorf("plan item %s is not a contact", i.ID)
	}
	var content ContactContent
	if err := json.Unmarshal(i.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to decode contact content: %w", err)
	}
	return &content, nil
}
