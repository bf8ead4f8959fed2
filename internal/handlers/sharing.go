package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/dto"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

// SharingHandler coordinates collaborator and access-level HTTP handlers.
type SharingHandler struct {
	sharingService *services.SharingService
}

// NewSharingHandler creates a new SharingHandler
func NewSharingHandler(sharingService *services.SharingService) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

// AddCollaborator grants a user access to the plan by email. Owner only
// (enforced by middleware).
func (h *SharingHandler) AddCollaborator(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type AddCollaboratorRequest struct {
		Email  string                  `json:"email" binding:"required,email"`
		Role   models.CollaboratorRole `json:"role" binding:"required"`
		Notify bool                    `json:"notify"`
	}

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.sharingService.AddCollaborator(&plan, services.AddCollaboratorInput{
		ActorID: userID,
		Email:   req.Email,
		Role:    req.Role,
		Notify:  req.Notify,
	})
	if err != nil && user == nil {
		respondSharingError(c, err)
		return
	}
	if err != nil {
		// Grant succeeded, notification did not.
		slog.Warn("collaborator notification failed", "plan_id", plan.ID, "error", err)
	}

	name := user.FullName
	if name == "" {
		name = user.Email
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      fmt.Sprintf("%s was added as a %s", name, req.Role),
		"collaborator": dto.ToUserDTO(*user),
	})
}

// ListCollaborators returns the plan's collaborators. Requires viewer role.
func (h *SharingHandler) ListCollaborators(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	collaborators, err := h.sharingService.ListCollaborators(plan.ID)
	if err != nil {
		respondSharingError(c, err)
		return
	}

	response := make([]dto.CollaboratorDTO, len(collaborators))
	for i, collaborator := range collaborators {
		response[i] = dto.ToCollaboratorDTO(collaborator)
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": response})
}

// UpdateCollaboratorRole changes a collaborator's role. Owner only (enforced
// by middleware).
func (h *SharingHandler) UpdateCollaboratorRole(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateRoleRequest struct {
		Role models.CollaboratorRole `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.sharingService.UpdateCollaboratorRole(&plan, targetID, req.Role); err != nil {
		respondSharingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator role updated"})
}

// RemoveCollaborator deletes a collaborator grant. The owner may remove
// anyone; a collaborator may remove themselves.
func (h *SharingHandler) RemoveCollaborator(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetPlanRole(c)

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.sharingService.RemoveCollaborator(&plan, userID, role, targetID); err != nil {
		respondSharingError(c, err)
		return
	}

	if userID == targetID {
		c.JSON(http.StatusOK, gin.H{"message": "You have left the plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed"})
}

// LeavePlan removes the caller's own access to the plan. Owners get a
// conflict; they must delete the plan instead.
func (h *SharingHandler) LeavePlan(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetPlanRole(c)

	if err := h.sharingService.LeavePlan(&plan, userID, role); err != nil {
		respondSharingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You have left the plan"})
}

// UpdateAccessLevel flips the plan between restricted and public. Owner only
// (enforced by middleware).
func (h *SharingHandler) UpdateAccessLevel(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	type AccessLevelRequest struct {
		AccessLevel models.PlanAccessLevel `json:"access_level" binding:"required"`
	}

	var req AccessLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.sharingService.UpdateAccessLevel(&plan, req.AccessLevel); err != nil {
		respondSharingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Access level set to %q", req.AccessLevel),
	})
}

func respondSharingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCollaboratorEmailRequired),
		errors.Is(err, services.ErrInvalidCollaboratorRole),
		errors.Is(err, services.ErrCannotAddSelf),
		errors.Is(err, services.ErrInvalidAccessLevel):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNoAccountForEmail):
		// Deliberately specific so the owner can fix a typo.
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCollaboratorNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOwnerCannotLeave):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotCollaboratorOrOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		slog.Error("sharing operation failed", "error", err)
		apierrors.InternalError(c, "")
	}
}
