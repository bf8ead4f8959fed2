package repository

import (
	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// PlanRepository defines the interface for plan aggregate data access
type PlanRepository interface {
	// CreateWithItems creates a plan and its items in a single transaction
	CreateWithItems(plan *models.Plan, items []models.PlanItem) error

	// FindByID finds a plan by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Plan, error)

	// FindByPublicLinkToken finds a plan by its public link token
	FindByPublicLinkToken(token string, preload ...string) (*models.Plan, error)

	// UpdateWithItems saves the plan and replaces its entire item set in a
	// single transaction
	UpdateWithItems(plan *models.Plan, items []models.PlanItem) error

	// Save persists plan field changes
	Save(plan *models.Plan) error

	// Delete removes the plan together with its items, collaborators and
	// comments in a single transaction
	Delete(id uuid.UUID) error

	// ListOwnedByUser lists plans authored by the user, newest first
	ListOwnedByUser(userID uuid.UUID, params utils.PaginationParams) ([]models.Plan, int64, error)

	// ListSharedWithUser lists collaborator rows (with plans preloaded) for
	// plans shared with the user
	ListSharedWithUser(userID uuid.UUID) ([]models.PlanCollaborator, error)

	// UpsertCollaborator inserts the collaborator or updates the stored role
	UpsertCollaborator(collaborator *models.PlanCollaborator) error

	// FindCollaborator finds a specific collaborator row
	FindCollaborator(planID, userID uuid.UUID) (*models.PlanCollaborator, error)

	// UpdateCollaboratorRole changes a collaborator's role
	UpdateCollaboratorRole(planID, userID uuid.UUID, role models.CollaboratorRole) error

	// RemoveCollaborator deletes a collaborator row
	RemoveCollaborator(planID, userID uuid.UUID) error

	// ListCollaborators lists all collaborators of a plan with users preloaded
	ListCollaborators(planID uuid.UUID) ([]models.PlanCollaborator, error)

	// CreateComment inserts a comment on a plan
	CreateComment(comment *models.Comment) error

	// ListComments lists a plan's comments with authors preloaded, oldest first
	ListComments(planID uuid.UUID) ([]models.Comment, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create inserts a notification
	Create(notification *models.Notification) error

	// ListByRecipient lists a user's notifications, newest first
	ListByRecipient(recipientID uuid.UUID) ([]models.Notification, error)

	// MarkRead marks one notification as read, scoped to the recipient
	MarkRead(id, recipientID uuid.UUID) error

	// MarkAllRead marks all of the recipient's unread notifications as read
	MarkAllRead(recipientID uuid.UUID) error
}

// FeedbackRepository defines the interface for feedback data access
type FeedbackRepository interface {
	// Create inserts a feedback entry
	Create(feedback *models.Feedback) error
}
