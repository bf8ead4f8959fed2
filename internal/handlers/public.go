package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/constants"
	"github.com/dev-kristian/handoverplan-api/internal/database"
	"github.com/dev-kristian/handoverplan-api/internal/dto"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

// PublicHandler serves plans through their public link token without
// requiring authentication.
type PublicHandler struct {
	publicLinkService *services.PublicLinkService
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(publicLinkService *services.PublicLinkService) *PublicHandler {
	return &PublicHandler{publicLinkService: publicLinkService}
}

// ResolvePublicLink serves the read-only plan behind a token. A public
// published plan is returned to anyone. A restricted published plan requires
// a session holding a role on the plan: anonymous viewers get a restricted
// state telling them to sign in, and signed-in strangers get the same 404 a
// dead token gets. Unpublished tokens are 404 unconditionally.
func (h *PublicHandler) ResolvePublicLink(c *gin.Context) {
	token := c.Param("publicLinkToken")

	plan, err := h.publicLinkService.Resolve(token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.ToPublicPlanDTO(*plan))

	case errors.Is(err, services.ErrPlanRestricted):
		userID, authenticated := sessionUserID(c)
		if !authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "RESTRICTED",
				"message": "This plan is restricted. Sign in to request access.",
			})
			return
		}

		role, roleErr := access.RoleOnPlan(database.GetDB(), plan, userID)
		if roleErr != nil {
			slog.Error("failed to derive plan role", "plan_id", plan.ID, "error", roleErr)
			apierrors.InternalError(c, "")
			return
		}
		if !role.AtLeast(access.RoleViewer) {
			apierrors.NotFound(c, "Plan not found")
			return
		}
		c.JSON(http.StatusOK, dto.ToPublicPlanDTO(*plan))

	case errors.Is(err, services.ErrPlanNotFound):
		apierrors.NotFound(c, "Plan not found")

	default:
		slog.Error("public link resolution failed", "error", err)
		apierrors.InternalError(c, "")
	}
}

// sessionUserID reads the caller's identity straight from the session; the
// public route carries no auth middleware.
func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := sessions.Default(c).Get(constants.ContextKeyUserID)
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
