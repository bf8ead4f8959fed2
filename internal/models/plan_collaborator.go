package models

import (
	"time"

	"github.com/google/uuid"
)

type CollaboratorRole string

const (
	CollaboratorRoleViewer    CollaboratorRole = "viewer"
	CollaboratorRoleCommenter CollaboratorRole = "commenter"
	CollaboratorRoleEditor    CollaboratorRole = "editor"
)

// ValidCollaboratorRole reports whether role is one of the assignable
// collaborator roles. "owner" is never stored; the author is the implicit owner.
func ValidCollaboratorRole(role CollaboratorRole) bool {
	switch role {
	case CollaboratorRoleViewer, CollaboratorRoleCommenter, CollaboratorRoleEditor:
		return true
	}
	return false
}

// PlanCollaborator grants a non-owner user a role on a plan.
type PlanCollaborator struct {
	PlanID    uuid.UUID        `gorm:"type:uuid;primarykey" json:"plan_id"`
	UserID    uuid.UUID        `gorm:"type:uuid;primarykey" json:"user_id"`
	Role      CollaboratorRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	Plan Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
