package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/database"
	apierrors "github.com/dev-kristian/handoverplan-api/internal/errors"
	"github.com/dev-kristian/handoverplan-api/internal/models"
)

// Context keys set by RequirePlanRole for downstream handlers.
const (
	ContextKeyPlan     = "plan"
	ContextKeyPlanRole = "plan_role"
)

// RequirePlanRole loads the plan from the :id parameter, derives the caller's
// role, and aborts unless the role meets min. A missing plan and an
// insufficient role both respond 404 so callers cannot probe which restricted
// plans exist.
func RequirePlanRole(min access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		planID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.BadRequest(c, "Invalid plan ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var plan models.Plan
		if err := database.GetDB().First(&plan, "id = ?", planID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Error("failed to load plan", "plan_id", planID, "error", err)
				apierrors.InternalError(c, "")
				c.Abort()
				return
			}
			apierrors.NotFound(c, "Plan not found")
			c.Abort()
			return
		}

		role, err := access.RoleOnPlan(database.GetDB(), &plan, userID)
		if err != nil {
			slog.Error("failed to derive plan role", "plan_id", planID, "error", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		if !role.AtLeast(min) {
			// 404 rather than 403: role=none must look identical to a
			// nonexistent plan.
			apierrors.NotFound(c, "Plan not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyPlan, plan)
		c.Set(ContextKeyPlanRole, role)
		c.Next()
	}
}

// GetPlan retrieves the plan loaded by RequirePlanRole from the context.
func GetPlan(c *gin.Context) (models.Plan, bool) {
	raw, exists := c.Get(ContextKeyPlan)
	if !exists {
		return models.Plan{}, false
	}
	plan, ok := raw.(models.Plan)
	return plan, ok
}

// GetPlanRole retrieves the role derived by RequirePlanRole from the context.
func GetPlanRole(c *gin.Context) (access.Role, bool) {
	raw, exists := c.Get(ContextKeyPlanRole)
	if !exists {
		return access.RoleNone, false
	}
	role, ok := raw.(access.Role)
	return role, ok
}
