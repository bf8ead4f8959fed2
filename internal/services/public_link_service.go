package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
)

// ErrPlanRestricted reports that the token exists and the plan is published,
// but the plan is restricted: the viewer must authenticate and hold an
// explicit role. The caller decides what that means for its transport.
var ErrPlanRestricted = errors.New("plan is restricted")

// PublicLinkService resolves opaque tokens into published plans with no
// identity check. Resolution is read-only and safe under concurrent load.
type PublicLinkService struct {
	planRepo repository.PlanRepository
}

// NewPublicLinkService creates a new PublicLinkService
func NewPublicLinkService(planRepo repository.PlanRepository) *PublicLinkService {
	return &PublicLinkService{planRepo: planRepo}
}

// Resolve maps a token to its plan. A token whose plan is not published
// behaves exactly like a token that does not exist, even if it was minted for
// the plan while it was published before. A restricted plan is returned
// together with ErrPlanRestricted so the caller can fall back through the
// access control check instead of serving content.
func (s *PublicLinkService) Resolve(token string) (*models.Plan, error) {
	plan, err := s.planRepo.FindByPublicLinkToken(token, "Items", "Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to resolve public link: %w", err)
	}

	if !plan.IsPublished() {
		return nil, ErrPlanNotFound
	}

	SortItems(plan.Items)

	if plan.AccessLevel == models.AccessLevelRestricted {
		return plan, ErrPlanRestricted
	}

	return plan, nil
}
