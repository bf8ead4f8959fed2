package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-kristian/handoverplan-api/internal/dto"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

// CommentHandler coordinates plan comment HTTP handlers. Any role on the plan
// may read and post comments; the RequirePlanRole middleware gates access.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment posts a comment on the plan.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(plan.ID, userID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrCommentEmpty) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		slog.Error("failed to create comment", "plan_id", plan.ID, "error", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns the plan's comments, oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	plan, ok := middleware.GetPlan(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	comments, err := h.commentService.ListComments(plan.ID)
	if err != nil {
		slog.Error("failed to list comments", "plan_id", plan.ID, "error", err)
		apierrors.InternalError(c, "")
		return
	}

	response := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		response[i] = dto.ToCommentDTO(comment)
	}

	c.JSON(http.StatusOK, gin.H{"comments": response})
}
