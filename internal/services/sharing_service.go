package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
)

var (
	ErrCollaboratorEmailRequired = errors.New("email and role are required")
	ErrInvalidCollaboratorRole   = errors.New("role must be viewer, commenter or editor")
	ErrNoAccountForEmail         = errors.New("no account found for that email address")
	ErrCannotAddSelf             = errors.New("you cannot add yourself as a collaborator")
	ErrCollaboratorNotFound      = errors.New("collaborator not found")
	ErrNotCollaboratorOrOwner    = errors.New("no permission to remove this collaborator")
	ErrOwnerCannotLeave          = errors.New("owners cannot leave their own plan; delete it instead")
	ErrInvalidAccessLevel        = errors.New("access level must be restricted or public")
)

// SharingService manages collaborator grants, the restricted/public access
// flag, and the notification side effect of granting access.
type SharingService struct {
	planRepo         repository.PlanRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewSharingService creates a new SharingService
func NewSharingService(planRepo repository.PlanRepository, userRepo repository.UserRepository, notificationRepo repository.NotificationRepository) *SharingService {
	return &SharingService{
		planRepo:         planRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// AddCollaboratorInput represents parameters to grant a user access to a plan.
type AddCollaboratorInput struct {
	ActorID uuid.UUID
	Email   string
	Role    models.CollaboratorRole
	Notify  bool
}

// AddCollaborator grants the user behind the email a role on the plan. An
// unknown email is reported distinctly so the owner can correct a typo; this
// is the one deliberate exception to the uniform not-found policy and reveals
// nothing about any plan. Re-adding an existing collaborator updates the role.
func (s *SharingService) AddCollaborator(plan *models.Plan, input AddCollaboratorInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Role == "" {
		return nil, ErrCollaboratorEmailRequired
	}
	if !models.ValidCollaboratorRole(input.Role) {
		return nil, ErrInvalidCollaboratorRole
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAccountForEmail
		}
		return nil, fmt.Errorf("failed to look up profile by email: %w", err)
	}

	if user.ID == input.ActorID {
		return nil, ErrCannotAddSelf
	}

	collaborator := &models.PlanCollaborator{
		PlanID: plan.ID,
		UserID: user.ID,
		Role:   input.Role,
	}
	if err := s.planRepo.UpsertCollaborator(collaborator); err != nil {
		return nil, fmt.Errorf("failed to add collaborator: %w", err)
	}

	if input.Notify {
		notification := &models.Notification{
			RecipientID: user.ID,
			ActorID:     input.ActorID,
			Type:        models.NotificationPlanAccessGranted,
			ResourceID:  plan.ID,
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			// The grant itself succeeded; a failed notification is not a
			// reason to report failure to the owner.
			return user, fmt.Errorf("collaborator added but notification failed: %w", err)
		}
	}

	return user, nil
}

// UpdateCollaboratorRole changes the stored role of an existing collaborator.
func (s *SharingService) UpdateCollaboratorRole(plan *models.Plan, targetID uuid.UUID, role models.CollaboratorRole) error {
	if !models.ValidCollaboratorRole(role) {
		return ErrInvalidCollaboratorRole
	}

	if _, err := s.planRepo.FindCollaborator(plan.ID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollaboratorNotFound
		}
		return fmt.Errorf("failed to find collaborator: %w", err)
	}

	if err := s.planRepo.UpdateCollaboratorRole(plan.ID, targetID, role); err != nil {
		return fmt.Errorf("failed to update collaborator role: %w", err)
	}
	return nil
}

// RemoveCollaborator deletes a collaborator grant. The plan owner may remove
// anyone; a collaborator may only remove themselves.
func (s *SharingService) RemoveCollaborator(plan *models.Plan, actorID uuid.UUID, actorRole access.Role, targetID uuid.UUID) error {
	isSelfRemoval := actorID == targetID
	if actorRole != access.RoleOwner && !isSelfRemoval {
		return ErrNotCollaboratorOrOwner
	}

	if _, err := s.planRepo.FindCollaborator(plan.ID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollaboratorNotFound
		}
		return fmt.Errorf("failed to find collaborator: %w", err)
	}

	if err := s.planRepo.RemoveCollaborator(plan.ID, targetID); err != nil {
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}
	return nil
}

// LeavePlan removes the caller's own collaborator grant. The owner has no
// grant to remove and cannot leave; that is a terminal conflict.
func (s *SharingService) LeavePlan(plan *models.Plan, userID uuid.UUID, role access.Role) error {
	if role == access.RoleOwner {
		return ErrOwnerCannotLeave
	}
	return s.RemoveCollaborator(plan, userID, role, userID)
}

// UpdateAccessLevel flips the plan between restricted and public. The public
// link token is untouched; a restricted plan keeps its token but the resolver
// stops serving content for it.
func (s *SharingService) UpdateAccessLevel(plan *models.Plan, level models.PlanAccessLevel) error {
	if level != models.AccessLevelRestricted && level != models.AccessLevelPublic {
		return ErrInvalidAccessLevel
	}

	plan.AccessLevel = level
	if err := s.planRepo.Save(plan); err != nil {
		return fmt.Errorf("failed to update access level: %w", err)
	}
	return nil
}

// ListCollaborators returns the plan's collaborator grants with user profiles.
func (s *SharingService) ListCollaborators(planID uuid.UUID) ([]models.PlanCollaborator, error) {
	collaborators, err := s.planRepo.ListCollaborators(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, nil
}
