package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-kristian/handoverplan-api/internal/constants"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

// FeedbackHandler coordinates feedback submission.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedback stores a feedback entry for the caller.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type FeedbackRequest struct {
		Content string `json:"content" binding:"required"`
		Type    string `json:"type" binding:"required"`
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.feedbackService.Submit(userID, req.Content, req.Type); err != nil {
		switch {
		case errors.Is(err, services.ErrFeedbackTooShort):
			apierrors.BadRequest(c, fmt.Sprintf("Feedback must be at least %d characters long", constants.MinFeedbackLength))
		case errors.Is(err, services.ErrFeedbackTypeRequired):
			apierrors.BadRequest(c, err.Error())
		default:
			slog.Error("failed to store feedback", "error", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you! Your feedback has been submitted.",
	})
}
