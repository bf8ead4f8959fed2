package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/constants"
	"github.com/dev-kristian/handoverplan-api/internal/database"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

type sharingTestEnv struct {
	db      *gorm.DB
	handler *SharingHandler
}

func setupSharingTestEnv(t *testing.T) sharingTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.PlanItem{},
		&models.PlanCollaborator{},
		&models.Notification{},
		&models.Comment{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	planRepo := repository.NewPlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	sharingService := services.NewSharingService(planRepo, userRepo, notificationRepo)
	handler := NewSharingHandler(sharingService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return sharingTestEnv{db: db, handler: handler}
}

// sharingTestContext builds a gin context as the plan middleware would have
// left it: plan, derived role and user ID already present.
func sharingTestContext(method, url string, body []byte, plan models.Plan, role access.Role, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyPlan, plan)
	c.Set(middleware.ContextKeyPlanRole, role)

	return c, w
}

func createSharingTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, FullName: "Test User", PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createSharingTestPlan(t *testing.T, db *gorm.DB, authorID uuid.UUID) models.Plan {
	t.Helper()
	plan := models.Plan{
		AuthorID:    authorID,
		Title:       "Handover",
		Status:      models.PlanStatusDraft,
		AccessLevel: models.AccessLevelRestricted,
	}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func TestSharingHandler_AddCollaborator(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	invitee := createSharingTestUser(t, env.db, "invitee@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	body, err := json.Marshal(map[string]interface{}{
		"email":  "invitee@example.com",
		"role":   "viewer",
		"notify": true,
	})
	require.NoError(t, err)

	c, w := sharingTestContext(http.MethodPost, "/api/plans/"+plan.ID.String()+"/collaborators",
		body, plan, access.RoleOwner, owner.ID)

	env.handler.AddCollaborator(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var collaborator models.PlanCollaborator
	require.NoError(t, env.db.Where("plan_id = ? AND user_id = ?", plan.ID, invitee.ID).
		First(&collaborator).Error)
	require.Equal(t, models.CollaboratorRoleViewer, collaborator.Role)

	var notification models.Notification
	require.NoError(t, env.db.Where("recipient_id = ?", invitee.ID).First(&notification).Error)
	require.Equal(t, models.NotificationPlanAccessGranted, notification.Type)
	require.Equal(t, plan.ID, notification.ResourceID)
	require.Equal(t, owner.ID, notification.ActorID)
	require.False(t, notification.IsRead)
}

func TestSharingHandler_AddCollaborator_UnknownEmail(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	body, err := json.Marshal(map[string]interface{}{
		"email": "nobody@example.com",
		"role":  "viewer",
	})
	require.NoError(t, err)

	c, w := sharingTestContext(http.MethodPost, "/api/plans/"+plan.ID.String()+"/collaborators",
		body, plan, access.RoleOwner, owner.ID)

	env.handler.AddCollaborator(c)

	// Distinct outcome so the owner can correct a typo.
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no account")
}

func TestSharingHandler_AddCollaborator_Self(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	body, err := json.Marshal(map[string]interface{}{
		"email": "owner@example.com",
		"role":  "editor",
	})
	require.NoError(t, err)

	c, w := sharingTestContext(http.MethodPost, "/api/plans/"+plan.ID.String()+"/collaborators",
		body, plan, access.RoleOwner, owner.ID)

	env.handler.AddCollaborator(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSharingHandler_AddCollaborator_UpsertsRole(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	invitee := createSharingTestUser(t, env.db, "invitee@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	for _, role := range []string{"viewer", "editor"} {
		body, err := json.Marshal(map[string]interface{}{
			"email": "invitee@example.com",
			"role":  role,
		})
		require.NoError(t, err)

		c, w := sharingTestContext(http.MethodPost, "/api/plans/"+plan.ID.String()+"/collaborators",
			body, plan, access.RoleOwner, owner.ID)
		env.handler.AddCollaborator(c)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var collaborators []models.PlanCollaborator
	require.NoError(t, env.db.Where("plan_id = ? AND user_id = ?", plan.ID, invitee.ID).
		Find(&collaborators).Error)
	require.Len(t, collaborators, 1)
	require.Equal(t, models.CollaboratorRoleEditor, collaborators[0].Role)
}

func TestSharingHandler_UpdateCollaboratorRole(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	collaborator := createSharingTestUser(t, env.db, "collab@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)
	require.NoError(t, env.db.Create(&models.PlanCollaborator{
		PlanID: plan.ID,
		UserID: collaborator.ID,
		Role:   models.CollaboratorRoleViewer,
	}).Error)

	body, err := json.Marshal(map[string]string{"role": "editor"})
	require.NoError(t, err)

	c, w := sharingTestContext(http.MethodPatch,
		"/api/plans/"+plan.ID.String()+"/collaborators/"+collaborator.ID.String(),
		body, plan, access.RoleOwner, owner.ID)
	c.Params = gin.Params{{Key: "user_id", Value: collaborator.ID.String()}}

	env.handler.UpdateCollaboratorRole(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.PlanCollaborator
	require.NoError(t, env.db.Where("plan_id = ? AND user_id = ?", plan.ID, collaborator.ID).
		First(&updated).Error)
	require.Equal(t, models.CollaboratorRoleEditor, updated.Role)
}

func TestSharingHandler_RemoveCollaborator_SelfLeave(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	collaborator := createSharingTestUser(t, env.db, "collab@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)
	require.NoError(t, env.db.Create(&models.PlanCollaborator{
		PlanID: plan.ID,
		UserID: collaborator.ID,
		Role:   models.CollaboratorRoleViewer,
	}).Error)

	c, w := sharingTestContext(http.MethodDelete,
		"/api/plans/"+plan.ID.String()+"/collaborators/"+collaborator.ID.String(),
		nil, plan, access.RoleViewer, collaborator.ID)
	c.Params = gin.Params{{Key: "user_id", Value: collaborator.ID.String()}}

	env.handler.RemoveCollaborator(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "left the plan")

	var count int64
	env.db.Model(&models.PlanCollaborator{}).Where("plan_id = ?", plan.ID).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestSharingHandler_RemoveCollaborator_NonOwnerCannotRemoveOthers(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	first := createSharingTestUser(t, env.db, "first@example.com")
	second := createSharingTestUser(t, env.db, "second@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)
	for _, user := range []*models.User{first, second} {
		require.NoError(t, env.db.Create(&models.PlanCollaborator{
			PlanID: plan.ID,
			UserID: user.ID,
			Role:   models.CollaboratorRoleEditor,
		}).Error)
	}

	c, w := sharingTestContext(http.MethodDelete,
		"/api/plans/"+plan.ID.String()+"/collaborators/"+second.ID.String(),
		nil, plan, access.RoleEditor, first.ID)
	c.Params = gin.Params{{Key: "user_id", Value: second.ID.String()}}

	env.handler.RemoveCollaborator(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestSharingHandler_LeavePlan_OwnerConflict(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	c, w := sharingTestContext(http.MethodPost, "/api/plans/"+plan.ID.String()+"/leave",
		nil, plan, access.RoleOwner, owner.ID)

	env.handler.LeavePlan(c)

	require.Equal(t, http.StatusConflict, w.Code)

	// The plan is untouched.
	var got models.Plan
	require.NoError(t, env.db.First(&got, "id = ?", plan.ID).Error)
	require.Equal(t, plan.Title, got.Title)
}

func TestSharingHandler_UpdateAccessLevel(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	body, err := json.Marshal(map[string]string{"access_level": "public"})
	require.NoError(t, err)

	c, w := sharingTestContext(http.MethodPut, "/api/plans/"+plan.ID.String()+"/access-level",
		body, plan, access.RoleOwner, owner.ID)

	env.handler.UpdateAccessLevel(c)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.Plan
	require.NoError(t, env.db.First(&got, "id = ?", plan.ID).Error)
	require.Equal(t, models.AccessLevelPublic, got.AccessLevel)
}

func TestSharingHandler_UpdateAccessLevel_Invalid(t *testing.T) {
	env := setupSharingTestEnv(t)

	owner := createSharingTestUser(t, env.db, "owner@example.com")
	plan := createSharingTestPlan(t, env.db, owner.ID)

	body, err := json.Marshal(map[string]string{"access_level": "everyone"})
	require.NoError(t, err)

	c, w := sharingTestContext(http.MethodPut, "/api/plans/"+plan.ID.String()+"/access-level",
		body, plan, access.RoleOwner, owner.ID)

	env.handler.UpdateAccessLevel(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
