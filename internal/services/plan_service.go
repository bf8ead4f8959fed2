package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
	"github.com/dev-kristian/handoverplan-api/internal/utils"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrPlanTitleRequired    = errors.New("title is required")
	ErrPlanDateRange        = errors.New("start date must not be after end date")
	ErrInvalidPlanStatus    = errors.New("status must be draft or published")
	ErrInvalidItemType      = errors.New("item type must be task or contact")
	ErrInvalidItemContent   = errors.New("item content does not match its type")
	ErrTokenMintFailed      = errors.New("failed to allocate a public link token")
	ErrPublicTokenExhausted = errors.New("could not find a free public link token")
)

// tokenMintAttempts bounds the collision retry loop when minting a token.
const tokenMintAttempts = 5

// PlanService implements the plan aggregate: a plan and its item set are
// created, replaced and deleted as one unit.
type PlanService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// PlanItemInput is a single submitted item. Content is kept raw until the type
// tag has been matched against it.
type PlanItemInput struct {
	Type    models.PlanItemType `json:"type"`
	Content json.RawMessage     `json:"content"`
}

// CreatePlanInput represents parameters to create a new plan.
type CreatePlanInput struct {
	AuthorID  uuid.UUID
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Status    models.PlanStatus
	Items     []PlanItemInput
}

// UpdatePlanInput represents parameters to replace a plan's fields and items.
type UpdatePlanInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Status    models.PlanStatus
	Items     []PlanItemInput
}

// CreatePlan creates a plan together with its items. When the plan is created
// directly as published, the public link token is minted in the same
// transaction as the insert, so a published plan is never observable without
// a token.
func (s *PlanService) CreatePlan(input CreatePlanInput) (*models.Plan, error) {
	if err := validatePlanFields(input.Title, input.StartDate, input.EndDate, input.Status); err != nil {
		return nil, err
	}

	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		AuthorID:    input.AuthorID,
		Title:       strings.TrimSpace(input.Title),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
		AccessLevel: models.AccessLevelRestricted,
	}

	if input.Status == models.PlanStatusPublished {
		return plan, s.withFreshToken(plan, func() error {
			return s.planRepo.CreateWithItems(plan, items)
		})
	}

	if err := s.planRepo.CreateWithItems(plan, items); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

// GetPlan loads a plan with its items, collaborators and author.
func (s *PlanService) GetPlan(planID uuid.UUID) (*models.Plan, error) {
	plan, err := s.planRepo.FindByID(planID, "Items", "Author", "Collaborators", "Collaborators.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	SortItems(plan.Items)
	return plan, nil
}

// UpdatePlan replaces the plan's fields and its entire item set. The previous
// items are discarded; there is no per-item patching and no version check, so
// the last concurrent editor to commit wins. Editors may update a plan
// regardless of its status. If the update publishes a plan that never had a
// public link token, one is minted in the same write.
func (s *PlanService) UpdatePlan(plan *models.Plan, input UpdatePlanInput) (*models.Plan, error) {
	if err := validatePlanFields(input.Title, input.StartDate, input.EndDate, input.Status); err != nil {
		return nil, err
	}

	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	plan.Title = strings.TrimSpace(input.Title)
	plan.StartDate = input.StartDate
	plan.EndDate = input.EndDate
	plan.Status = input.Status

	if input.Status == models.PlanStatusPublished && plan.PublicLinkToken == nil {
		return plan, s.withFreshToken(plan, func() error {
			return s.planRepo.UpdateWithItems(plan, items)
		})
	}

	if err := s.planRepo.UpdateWithItems(plan, items); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

// PublishPlan transitions a plan to published. Publishing an already-published
// plan with a token is a no-op; the token value never changes once minted.
func (s *PlanService) PublishPlan(plan *models.Plan) (*models.Plan, error) {
	if plan.Status == models.PlanStatusPublished && plan.PublicLinkToken != nil {
		return plan, nil
	}

	plan.Status = models.PlanStatusPublished

	if plan.PublicLinkToken != nil {
		if err := s.planRepo.Save(plan); err != nil {
			return nil, fmt.Errorf("failed to publish plan: %w", err)
		}
		return plan, nil
	}

	return plan, s.withFreshToken(plan, func() error {
		return s.planRepo.Save(plan)
	})
}

// DeletePlan removes the plan and all of its items, collaborators and
// comments. There is no soft delete; the public link dies with the plan.
func (s *PlanService) DeletePlan(planID uuid.UUID) error {
	if err := s.planRepo.Delete(planID); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// ListPlansResult bundles the dashboard listing: plans the user owns plus
// collaborator rows for plans shared with them.
type ListPlansResult struct {
	Owned      []models.Plan
	OwnedTotal int64
	Shared     []models.PlanCollaborator
}

// ListPlansForUser returns the user's own plans (paginated) and the plans
// shared with them.
func (s *PlanService) ListPlansForUser(userID uuid.UUID, params utils.PaginationParams) (*ListPlansResult, error) {
	owned, total, err := s.planRepo.ListOwnedByUser(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	shared, err := s.planRepo.ListSharedWithUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared plans: %w", err)
	}

	return &ListPlansResult{Owned: owned, OwnedTotal: total, Shared: shared}, nil
}

// withFreshToken runs persist with a newly generated public link token on the
// plan, regenerating and retrying a bounded number of times when the unique
// index on public_link_token reports a collision.
func (s *PlanService) withFreshToken(plan *models.Plan, persist func() error) error {
	for attempt := 0; attempt < tokenMintAttempts; attempt++ {
		token, err := utils.GeneratePublicLinkToken()
		if err != nil {
			return ErrTokenMintFailed
		}

		plan.PublicLinkToken = &token
		err = persist()
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		plan.PublicLinkToken = nil
		return fmt.Errorf("failed to persist plan: %w", err)
	}

	plan.PublicLinkToken = nil
	return ErrPublicTokenExhausted
}

// SortItems orders items by sort order within their type partition; tasks and
// contacts carry independent sort sequences.
func SortItems(items []models.PlanItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Type != items[j].Type {
			return items[i].Type < items[j].Type
		}
		return items[i].SortOrder < items[j].SortOrder
	})
}

func validatePlanFields(title string, startDate, endDate time.Time, status models.PlanStatus) error {
	if strings.TrimSpace(title) == "" {
		return ErrPlanTitleRequired
	}
	if startDate.After(endDate) {
		return ErrPlanDateRange
	}
	if status != models.PlanStatusDraft && status != models.PlanStatusPublished {
		return ErrInvalidPlanStatus
	}
	return nil
}

// buildItems validates each submitted item against its type tag and assigns
// sort order per type partition in submission order.
func buildItems(inputs []PlanItemInput) ([]models.PlanItem, error) {
	items := make([]models.PlanItem, 0, len(inputs))
	orderByType := map[models.PlanItemType]int{}

	for i, input := range inputs {
		content, err := normalizeItemContent(input)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		items = append(items, models.PlanItem{
			Type:      input.Type,
			Content:   content,
			SortOrder: orderByType[input.Type],
		})
		orderByType[input.Type]++
	}

	return items, nil
}

// normalizeItemContent decodes the raw payload into the typed content matching
// the item's tag, validates it, and re-encodes the normalized form. The switch
// is exhaustive over the item types.
func normalizeItemContent(input PlanItemInput) (datatypes.JSON, error) {
	switch input.Type {
	case models.ItemTypeTask:
		var task models.TaskContent
		if err := json.Unmarshal(input.Content, &task); err != nil {
			return nil, ErrInvalidItemContent
		}
		if err := validateTaskContent(&task); err != nil {
			return nil, err
		}
		return json.Marshal(task)

	case models.ItemTypeContact:
		var contact models.ContactContent
		if err := json.Unmarshal(input.Content, &contact); err != nil {
			return nil, ErrInvalidItemContent
		}
		if strings.TrimSpace(contact.Name) == "" {
			return nil, fmt.Errorf("%w: contact name is required", ErrInvalidItemContent)
		}
		return json.Marshal(contact)

	default:
		return nil, ErrInvalidItemType
	}
}

func validateTaskContent(task *models.TaskContent) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrInvalidItemContent)
	}

	switch task.Status {
	case models.TaskItemStatusPending, models.TaskItemStatusInProgress,
		models.TaskItemStatusReview, models.TaskItemStatusCompleted:
	default:
		return fmt.Errorf("%w: unknown task status %q", ErrInvalidItemContent, task.Status)
	}

	switch task.Priority {
	case models.TaskItemPriorityLow, models.TaskItemPriorityMedium,
		models.TaskItemPriorityHigh, models.TaskItemPriorityCritical:
	default:
		return fmt.Errorf("%w: unknown task priority %q", ErrInvalidItemContent, task.Priority)
	}

	return nil
}
