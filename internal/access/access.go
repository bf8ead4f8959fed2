// Package access derives the effective role of a user on a plan. Every
// plan-gated operation goes through RoleOnPlan; role logic is never
// re-implemented inline in handlers or services.
package access

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/models"
)

// Role is the effective permission level of a caller on a plan.
type Role string

const (
	RoleNone      Role = "none"
	RoleViewer    Role = "viewer"
	RoleCommenter Role = "commenter"
	RoleEditor    Role = "editor"
	RoleOwner     Role = "owner"
)

var roleRank = map[Role]int{
	RoleNone:      0,
	RoleViewer:    1,
	RoleCommenter: 2,
	RoleEditor:    3,
	RoleOwner:     4,
}

// AtLeast reports whether r grants at least the permissions of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// RoleOnPlan returns the effective role of userID on plan:
// the author is the owner; otherwise the stored collaborator role applies;
// otherwise the user has no relation to the plan at all.
//
// The result is a pure function of (userID, plan.AuthorID, collaborator rows).
func RoleOnPlan(db *gorm.DB, plan *models.Plan, userID uuid.UUID) (Role, error) {
	if plan.AuthorID == userID {
		return RoleOwner, nil
	}

	var collaborator models.PlanCollaborator
	err := db.Where("plan_id = ? AND user_id = ?", plan.ID, userID).
		First(&collaborator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, fmt.Errorf("failed to look up collaborator: %w", err)
	}

	return fromCollaboratorRole(collaborator.Role), nil
}

func fromCollaboratorRole(role models.CollaboratorRole) Role {
	switch role {
	case models.CollaboratorRoleViewer:
		return RoleViewer
	case models.CollaboratorRoleCommenter:
		return RoleCommenter
	case models.CollaboratorRoleEditor:
		return RoleEditor
	default:
		return RoleNone
	}
}
