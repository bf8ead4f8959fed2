package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/dto"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

// NotificationHandler coordinates notification HTTP handlers.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	notifications, err := h.notificationService.ListForUser(userID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err)
		apierrors.InternalError(c, "")
		return
	}

	response := make([]dto.NotificationDTO, len(notifications))
	for i, notification := range notifications {
		response[i] = dto.ToNotificationDTO(notification)
	}

	c.JSON(http.StatusOK, gin.H{"notifications": response})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(notificationID, userID); err != nil {
		slog.Error("failed to mark notification read", "error", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks all of the caller's notifications as read.
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		slog.Error("failed to mark notifications read", "error", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
