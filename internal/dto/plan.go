package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/utils"
)

const dateLayout = "2006-01-02"

// PlanItemDTO represents a single plan item in API responses
type PlanItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	Type      models.PlanItemType `json:"type"`
	Content   json.RawMessage     `json:"content"`
	SortOrder int                 `json:"sort_order"`
}

// PlanDTO represents a plan with its items in API responses
type PlanDTO struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	StartDate       string                 `json:"start_date"`
	EndDate         string                 `json:"end_date"`
	Status          models.PlanStatus      `json:"status"`
	AccessLevel     models.PlanAccessLevel `json:"access_level"`
	PublicLinkToken *string                `json:"public_link_token,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Author          *UserDTO               `json:"author,omitempty"`
	Items           []PlanItemDTO          `json:"items"`
	YourRole        access.Role            `json:"your_role,omitempty"`
}

// PlanListItemDTO represents a plan in list responses (no items)
type PlanListItemDTO struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	Status      models.PlanStatus      `json:"status"`
	AccessLevel models.PlanAccessLevel `json:"access_level"`
	CreatedAt   time.Time              `json:"created_at"`
	Author      *UserDTO               `json:"author,omitempty"`
	YourRole    access.Role            `json:"your_role"`
}

// PlanListResponse bundles the dashboard listing
type PlanListResponse struct {
	Plans      []PlanListItemDTO        `json:"plans"`
	Shared     []PlanListItemDTO        `json:"shared"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// PublicPlanDTO is the read-only payload served through a public link. It
// carries no identifiers beyond the plan content itself.
type PublicPlanDTO struct {
	Title       string                 `json:"title"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	AccessLevel models.PlanAccessLevel `json:"access_level"`
	Items       []PlanItemDTO          `json:"items"`
}

// CollaboratorDTO represents a collaborator grant in API responses
type CollaboratorDTO struct {
	User      UserDTO                 `json:"user"`
	Role      models.CollaboratorRole `json:"role"`
	CreatedAt time.Time               `json:"created_at"`
}

// Conversion functions

// ToPlanItemDTO converts a PlanItem model to PlanItemDTO
func ToPlanItemDTO(item models.PlanItem) PlanItemDTO {
	return PlanItemDTO{
		ID:        item.ID,
		Type:      item.Type,
		Content:   json.RawMessage(item.Content),
		SortOrder: item.SortOrder,
	}
}

// ToPlanDTO converts a Plan model to PlanDTO. The public link token is
// included only for the plan owner.
func ToPlanDTO(plan models.Plan, role access.Role) PlanDTO {
	dto := PlanDTO{
		ID:          plan.ID,
		Title:       plan.Title,
		StartDate:   plan.StartDate.Format(dateLayout),
		EndDate:     plan.EndDate.Format(dateLayout),
		Status:      plan.Status,
		AccessLevel: plan.AccessLevel,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
		Items:       make([]PlanItemDTO, len(plan.Items)),
		YourRole:    role,
	}

	if role == access.RoleOwner {
		dto.PublicLinkToken = plan.PublicLinkToken
	}

	if plan.Author.ID != uuid.Nil {
		author := ToUserDTO(plan.Author)
		dto.Author = &author
	}

	for i, item := range plan.Items {
		dto.Items[i] = ToPlanItemDTO(item)
	}

	return dto
}

// ToPlanListItemDTO converts a Plan model to PlanListItemDTO
func ToPlanListItemDTO(plan models.Plan, role access.Role) PlanListItemDTO {
	dto := PlanListItemDTO{
		ID:          plan.ID,
		Title:       plan.Title,
		StartDate:   plan.StartDate.Format(dateLayout),
		EndDate:     plan.EndDate.Format(dateLayout),
		Status:      plan.Status,
		AccessLevel: plan.AccessLevel,
		CreatedAt:   plan.CreatedAt,
		YourRole:    role,
	}

	if plan.Author.ID != uuid.Nil {
		author := ToUserDTO(plan.Author)
		dto.Author = &author
	}

	return dto
}

// ToPublicPlanDTO converts a Plan model to the public read-only payload
func ToPublicPlanDTO(plan models.Plan) PublicPlanDTO {
	items := make([]PlanItemDTO, len(plan.Items))
	for i, item := range plan.Items {
		items[i] = ToPlanItemDTO(item)
	}

	return PublicPlanDTO{
		Title:       plan.Title,
		StartDate:   plan.StartDate.Format(dateLayout),
		EndDate:     plan.EndDate.Format(dateLayout),
		AccessLevel: plan.AccessLevel,
		Items:       items,
	}
}

// ToCollaboratorDTO converts a PlanCollaborator model to CollaboratorDTO
func ToCollaboratorDTO(collaborator models.PlanCollaborator) CollaboratorDTO {
	return CollaboratorDTO{
		User:      ToUserDTO(collaborator.User),
		Role:      collaborator.Role,
		CreatedAt: collaborator.CreatedAt,
	}
}
