package main

import (
	"log"
	"log/slog"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/dev-kristian/handoverplan-api/internal/access"
	"github.com/dev-kristian/handoverplan-api/internal/config"
	"github.com/dev-kristian/handoverplan-api/internal/database"
	"github.com/dev-kristian/handoverplan-api/internal/handlers"
	"github.com/dev-kristian/handoverplan-api/internal/logging"
	"github.com/dev-kristian/handoverplan-api/internal/middleware"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
	"github.com/dev-kristian/handoverplan-api/internal/services"
)

func main() {
	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions("handover_session", store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	planService := services.NewPlanService(planRepo)
	sharingService := services.NewSharingService(planRepo, userRepo, notificationRepo)
	publicLinkService := services.NewPublicLinkService(planRepo)
	commentService := services.NewCommentService(planRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	planHandler := handlers.NewPlanHandler(planService)
	sharingHandler := handlers.NewSharingHandler(sharingService)
	publicHandler := handlers.NewPublicHandler(publicLinkService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "HandoverPlan API is running",
		})
	})

	// Public plan route, no authentication
	r.GET("/:publicLinkToken", publicHandler.ResolvePublicLink)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Plan routes (protected)
		plans := api.Group("/plans")
		plans.Use(middleware.RequireAuth())
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("", planHandler.CreatePlan)
			plans.GET("/:id", middleware.RequirePlanRole(access.RoleViewer), planHandler.GetPlan)
			plans.PUT("/:id", middleware.RequirePlanRole(access.RoleEditor), planHandler.UpdatePlan)
			plans.POST("/:id/publish", middleware.RequirePlanRole(access.RoleEditor), planHandler.PublishPlan)
			plans.DELETE("/:id", middleware.RequirePlanRole(access.RoleOwner), planHandler.DeletePlan)

			plans.PUT("/:id/access-level", middleware.RequirePlanRole(access.RoleOwner), sharingHandler.UpdateAccessLevel)
			plans.GET("/:id/collaborators", middleware.RequirePlanRole(access.RoleViewer), sharingHandler.ListCollaborators)
			plans.POST("/:id/collaborators", middleware.RequirePlanRole(access.RoleOwner), sharingHandler.AddCollaborator)
			plans.PATCH("/:id/collaborators/:user_id", middleware.RequirePlanRole(access.RoleOwner), sharingHandler.UpdateCollaboratorRole)
			plans.DELETE("/:id/collaborators/:user_id", middleware.RequirePlanRole(access.RoleViewer), sharingHandler.RemoveCollaborator)
			plans.POST("/:id/leave", middleware.RequirePlanRole(access.RoleViewer), sharingHandler.LeavePlan)

			plans.GET("/:id/comments", middleware.RequirePlanRole(access.RoleViewer), commentHandler.ListComments)
			plans.POST("/:id/comments", middleware.RequirePlanRole(access.RoleViewer), commentHandler.CreateComment)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkNotificationRead)
			notifications.POST("/read-all", notificationHandler.MarkAllNotificationsRead)
		}

		// Feedback route (protected)
		api.POST("/feedback", middleware.RequireAuth(), feedbackHandler.SubmitFeedback)
	}

	// Start server
	slog.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
