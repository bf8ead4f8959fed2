package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/constants"
	"github.com/dev-kristian/handoverplan-api/internal/database"
	"github.com/dev-kristian/handoverplan-api/internal/dto"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

// PlanHandlerTestSuite exercises the plan routes through the full router so
// the role middleware is part of every request.
type PlanHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *PlanHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.PlanItem{},
		&models.PlanCollaborator{},
		&models.Notification{},
		&models.Comment{},
		&models.Feedback{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	planRepo := repository.NewPlanRepository(suite.db)
	planService := services.NewPlanService(planRepo)
	planHandler := NewPlanHandler(planService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	plans := suite.router.Group("/api/plans")
	plans.Use(headerAuth())
	{
		plans.GET("", planHandler.ListPlans)
		plans.POST("", planHandler.CreatePlan)
		plans.GET("/:id", middleware.RequirePlanRole(access.RoleViewer), planHandler.GetPlan)
		plans.PUT("/:id", middleware.RequirePlanRole(access.RoleEditor), planHandler.UpdatePlan)
		plans.POST("/:id/publish", middleware.RequirePlanRole(access.RoleEditor), planHandler.PublishPlan)
		plans.DELETE("/:id", middleware.RequirePlanRole(access.RoleOwner), planHandler.DeletePlan)
	}
}

func (suite *PlanHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// headerAuth stands in for the session middleware: the authenticated user is
// taken from the X-Test-User header.
func headerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(constants.ContextKeyUserID, id)
			}
		}
		c.Next()
	}
}

func (suite *PlanHandlerTestSuite) request(method, url string, body interface{}, userID uuid.UUID) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-Test-User", userID.String())
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PlanHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *PlanHandlerTestSuite) addCollaborator(planID, userID uuid.UUID, role models.CollaboratorRole) {
	suite.Require().NoError(suite.db.Create(&models.PlanCollaborator{
		PlanID: planID,
		UserID: userID,
		Role:   role,
	}).Error)
}

func planPayload(status string, items []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"title":      "Vacation Q3",
		"start_date": "2025-07-01",
		"end_date":   "2025-07-14",
		"status":     status,
		"items":      items,
	}
}

func taskItem(title string) map[string]interface{} {
	return map[string]interface{}{
		"type": "task",
		"content": map[string]interface{}{
			"title":    title,
			"status":   "pending",
			"priority": "high",
		},
	}
}

func contactItem(name string) map[string]interface{} {
	return map[string]interface{}{
		"type": "contact",
		"content": map[string]interface{}{
			"name": name,
			"role": "On-call",
		},
	}
}

func (suite *PlanHandlerTestSuite) createPlanViaAPI(owner *models.User, status string, items []map[string]interface{}) dto.PlanDTO {
	w := suite.request(http.MethodPost, "/api/plans", planPayload(status, items), owner.ID)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var plan dto.PlanDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &plan))
	return plan
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_WithItems() {
	owner := suite.createTestUser("owner@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", []map[string]interface{}{
		taskItem("Deploy"),
		contactItem("Alice"),
	})

	suite.Equal("Vacation Q3", plan.Title)
	suite.Equal(models.PlanStatusDraft, plan.Status)
	suite.Equal(models.AccessLevelRestricted, plan.AccessLevel)
	suite.Nil(plan.PublicLinkToken)
	suite.Len(plan.Items, 2)
	suite.Equal("2025-07-01", plan.StartDate)
	suite.Equal("2025-07-14", plan.EndDate)
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_RejectsInvertedDateRange() {
	owner := suite.createTestUser("owner@example.com")

	payload := planPayload("draft", nil)
	payload["start_date"] = "2025-08-01"
	payload["end_date"] = "2025-07-01"

	w := suite.request(http.MethodPost, "/api/plans", payload, owner.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_RejectsMismatchedItemContent() {
	owner := suite.createTestUser("owner@example.com")

	payload := planPayload("draft", []map[string]interface{}{
		{
			"type": "task",
			"content": map[string]interface{}{
				"title":    "Deploy",
				"status":   "someday",
				"priority": "high",
			},
		},
	})

	w := suite.request(http.MethodPost, "/api/plans", payload, owner.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_PublishedMintsToken() {
	owner := suite.createTestUser("owner@example.com")

	plan := suite.createPlanViaAPI(owner, "published", []map[string]interface{}{taskItem("Deploy")})

	suite.Require().NotNil(plan.PublicLinkToken)
	suite.Len(*plan.PublicLinkToken, constants.PublicLinkTokenLength)
}

func (suite *PlanHandlerTestSuite) TestGetPlan_StrangerSeesNotFound() {
	owner := suite.createTestUser("owner@example.com")
	stranger := suite.createTestUser("stranger@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", nil)

	w := suite.request(http.MethodGet, "/api/plans/"+plan.ID.String(), nil, stranger.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	// Identical outcome for a plan that does not exist at all.
	w = suite.request(http.MethodGet, "/api/plans/"+uuid.NewString(), nil, stranger.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PlanHandlerTestSuite) TestGetPlan_ViewerSeesContent() {
	owner := suite.createTestUser("owner@example.com")
	viewer := suite.createTestUser("viewer@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", []map[string]interface{}{taskItem("Deploy")})
	suite.addCollaborator(plan.ID, viewer.ID, models.CollaboratorRoleViewer)

	w := suite.request(http.MethodGet, "/api/plans/"+plan.ID.String(), nil, viewer.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	var got dto.PlanDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(access.RoleViewer, got.YourRole)
	suite.Len(got.Items, 1)
	// The token is owner-only.
	suite.Nil(got.PublicLinkToken)
}

func (suite *PlanHandlerTestSuite) TestUpdatePlan_ReplacesItemsWholesale() {
	owner := suite.createTestUser("owner@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", []map[string]interface{}{
		taskItem("Task A"),
		contactItem("Contact B"),
	})

	w := suite.request(http.MethodPut, "/api/plans/"+plan.ID.String(),
		planPayload("draft", []map[string]interface{}{taskItem("Task C")}), owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var got dto.PlanDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got.Items, 1)
	suite.Equal(models.ItemTypeTask, got.Items[0].Type)

	var task models.TaskContent
	suite.Require().NoError(json.Unmarshal(got.Items[0].Content, &task))
	suite.Equal("Task C", task.Title)

	var count int64
	suite.db.Model(&models.PlanItem{}).Where("plan_id = ?", plan.ID).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *PlanHandlerTestSuite) TestUpdatePlan_ViewerBlockedUntilPromoted() {
	owner := suite.createTestUser("owner@example.com")
	collaborator := suite.createTestUser("collab@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", nil)
	suite.addCollaborator(plan.ID, collaborator.ID, models.CollaboratorRoleViewer)

	payload := planPayload("draft", nil)
	w := suite.request(http.MethodPut, "/api/plans/"+plan.ID.String(), payload, collaborator.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.Require().NoError(suite.db.Model(&models.PlanCollaborator{}).
		Where("plan_id = ? AND user_id = ?", plan.ID, collaborator.ID).
		Update("role", models.CollaboratorRoleEditor).Error)

	w = suite.request(http.MethodPut, "/api/plans/"+plan.ID.String(), payload, collaborator.ID)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *PlanHandlerTestSuite) TestPublishPlan_IdempotentToken() {
	owner := suite.createTestUser("owner@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", nil)

	w := suite.request(http.MethodPost, "/api/plans/"+plan.ID.String()+"/publish", nil, owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	var first dto.PlanDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	suite.Require().NotNil(first.PublicLinkToken)
	suite.Equal(models.PlanStatusPublished, first.Status)

	w = suite.request(http.MethodPost, "/api/plans/"+plan.ID.String()+"/publish", nil, owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	var second dto.PlanDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &second))
	suite.Require().NotNil(second.PublicLinkToken)
	suite.Equal(*first.PublicLinkToken, *second.PublicLinkToken)
}

func (suite *PlanHandlerTestSuite) TestDeletePlan_CascadesAndOwnerOnly() {
	owner := suite.createTestUser("owner@example.com")
	editor := suite.createTestUser("editor@example.com")

	plan := suite.createPlanViaAPI(owner, "draft", []map[string]interface{}{taskItem("Deploy")})
	suite.addCollaborator(plan.ID, editor.ID, models.CollaboratorRoleEditor)
	suite.Require().NoError(suite.db.Create(&models.Comment{
		PlanID:   plan.ID,
		AuthorID: editor.ID,
		Content:  "Looks good",
	}).Error)

	// An editor is not enough to delete.
	w := suite.request(http.MethodDelete, "/api/plans/"+plan.ID.String(), nil, editor.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, "/api/plans/"+plan.ID.String(), nil, owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	var plans, items, collaborators, comments int64
	suite.db.Model(&models.Plan{}).Where("id = ?", plan.ID).Count(&plans)
	suite.db.Model(&models.PlanItem{}).Where("plan_id = ?", plan.ID).Count(&items)
	suite.db.Model(&models.PlanCollaborator{}).Where("plan_id = ?", plan.ID).Count(&collaborators)
	suite.db.Model(&models.Comment{}).Where("plan_id = ?", plan.ID).Count(&comments)
	suite.Equal(int64(0), plans)
	suite.Equal(int64(0), items)
	suite.Equal(int64(0), collaborators)
	suite.Equal(int64(0), comments)

	w = suite.request(http.MethodGet, "/api/plans/"+plan.ID.String(), nil, owner.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PlanHandlerTestSuite) TestListPlans_OwnedAndShared() {
	owner := suite.createTestUser("owner@example.com")
	other := suite.createTestUser("other@example.com")

	mine := suite.createPlanViaAPI(owner, "draft", nil)
	theirs := suite.createPlanViaAPI(other, "draft", nil)
	suite.addCollaborator(theirs.ID, owner.ID, models.CollaboratorRoleCommenter)

	w := suite.request(http.MethodGet, "/api/plans", nil, owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.PlanListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Plans, 1)
	suite.Equal(mine.ID, response.Plans[0].ID)
	suite.Equal(access.RoleOwner, response.Plans[0].YourRole)
	suite.Require().Len(response.Shared, 1)
	suite.Equal(theirs.ID, response.Shared[0].ID)
	suite.Equal(access.RoleCommenter, response.Shared[0].YourRole)
}

func (suite *PlanHandlerTestSuite) TestPlans_RequireAuthentication() {
	w := suite.request(http.MethodGet, "/api/plans", nil, uuid.Nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestPlanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PlanHandlerTestSuite))
}
