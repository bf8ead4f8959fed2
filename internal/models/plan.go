package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusPublished PlanStatus = "published"
)

type PlanAccessLevel string

const (
	AccessLevelRestricted PlanAccessLevel = "restricted"
	AccessLevelPublic     PlanAccessLevel = "public"
)

// Plan is the handover document aggregate. PublicLinkToken is set the first
// time the plan is published and never changes afterwards.
type Plan struct {
	ID              uuid.UUID       `gorm:"type:uuid;primarykey" json:"id"`
	AuthorID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"author_id"`
	Title           string          `gorm:"type:varchar(255);not null" json:"title"`
	StartDate       time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time       `gorm:"type:date;not null" json:"end_date"`
	Status          PlanStatus      `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AccessLevel     PlanAccessLevel `gorm:"type:varchar(20);not null;default:'restricted'" json:"access_level"`
	PublicLinkToken *string         `gorm:"type:varchar(16);uniqueIndex" json:"public_link_token,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	Author        User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Items         []PlanItem         `gorm:"foreignKey:PlanID" json:"items,omitempty"`
	Collaborators []PlanCollaborator `gorm:"foreignKey:PlanID" json:"collaborators,omitempty"`
	Comments      []Comment          `gorm:"foreignKey:PlanID" json:"comments,omitempty"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsPublished reports whether the plan is visible through its public link.
func (p *Plan) IsPublished() bool {
	return p.Status == PlanStatusPublished
}
