package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/dto"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/services"
	"github.com/dev-kristian/handoverplan-api/internal/utils"
)

const dateLayout = "2006-01-02"

// PlanHandler coordinates plan aggregate HTTP handlers. Authorization is done
// by the RequirePlanRole middleware before any of the plan-scoped handlers run.
type PlanHandler struct {
	planService *services.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// planRequest is the shared request body for creating and replacing a plan.
type planRequest struct {
	Title     string                   `json:"title" binding:"required"`
	StartDate string                   `json:"start_date" binding:"required"`
	EndDate   string                   `json:"end_date" binding:"required"`
	Status    models.PlanStatus        `json:"status" binding:"required"`
	Items     []services.PlanItemInput `json:"items"`
}

func (r *planRequest) dates() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CreatePlan creates a plan together with its items.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, end, err := req.dates()
	if err != nil {
		apierrors.BadRequest(c, "Dates must use the YYYY-MM-DD format")
		return
	}

	plan, err := h.planService.CreatePlan(services.CreatePlanInput{
		AuthorID:  userID,
		Title:     req.Title,
		StartDate: start,
		EndDate:   end,
		Status:    req.Status,
		Items:     req.Items,
	})
	if err != nil {
		respondPlanError(c, err)
		return
	}

	created, err := h.planService.GetPlan(plan.ID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPlanDTO(*created, access.RoleOwner))
}

// ListPlans returns the dashboard listing: the caller's own plans plus plans
// shared with them.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	result, err := h.planService.ListPlansForUser(userID, params)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	response := dto.PlanListResponse{
		Plans:  make([]dto.PlanListItemDTO, len(result.Owned)),
		Shared: make([]dto.PlanListItemDTO, 0, len(result.Shared)),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: result.OwnedTotal,
		},
	}
	for i, plan := range result.Owned {
		response.Plans[i] = dto.ToPlanListItemDTO(plan, access.RoleOwner)
	}
	for _, collaboration := range result.Shared {
		role := access.Role(collaboration.Role)
		response.Shared = append(response.Shared, dto.ToPlanListItemDTO(collaboration.Plan, role))
	}

	c.JSON(http.StatusOK, response)
}

// GetPlan returns a plan with its items. Requires at least viewer role.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	role, _ := middleware.GetPlanRole(c)

	full, err := h.planService.GetPlan(plan.ID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*full, role))
}

// UpdatePlan replaces the plan's fields and items. Requires editor role.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	role, _ := middleware.GetPlanRole(c)

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, end, err := req.dates()
	if err != nil {
		apierrors.BadRequest(c, "Dates must use the YYYY-MM-DD format")
		return
	}

	if _, err := h.planService.UpdatePlan(&plan, services.UpdatePlanInput{
		Title:     req.Title,
		StartDate: start,
		EndDate:   end,
		Status:    req.Status,
		Items:     req.Items,
	}); err != nil {
		respondPlanError(c, err)
		return
	}

	updated, err := h.planService.GetPlan(plan.ID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*updated, role))
}

// PublishPlan transitions the plan to published, minting the public link token
// on first publish. Requires editor role.
func (h *PlanHandler) PublishPlan(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	role, _ := middleware.GetPlanRole(c)

	published, err := h.planService.PublishPlan(&plan)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*published, role))
}

// DeletePlan removes the plan and everything attached to it. Owner only.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	if err := h.planService.DeletePlan(plan.ID); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Plan deleted successfully",
	})
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPlanTitleRequired),
		errors.Is(err, services.ErrPlanDateRange),
		errors.Is(err, services.ErrInvalidPlanStatus),
		errors.Is(err, services.ErrInvalidItemType),
		errors.Is(err, services.ErrInvalidItemContent):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPlanNotFound):
		apierrors.NotFound(c, "Plan not found")
	default:
		slog.Error("plan operation failed", "error", err)
		apierrors.InternalError(c, "")
	}
}
