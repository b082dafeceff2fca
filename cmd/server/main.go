package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/nwaizer/projecthub/internal/config"
	"github.com/nwaizer/projecthub/internal/constants"
	"github.com/nwaizer/projecthub/internal/database"
	"github.com/nwaizer/projecthub/internal/handlers"
	"github.com/nwaizer/projecthub/internal/middleware"
	"github.com/nwaizer/projecthub/internal/models"
	"github.com/nwaizer/projecthub/internal/services"
	"github.com/nwaizer/projecthub/internal/store"
)

func main() {
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
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize stores and services
	stores := store.NewStores(database.GetDB())
	authService := services.NewAuthService(stores.Users)
	userService := services.NewUserService(stores)
	projectService := services.NewProjectService(stores)
	workItemService := services.NewWorkItemService(stores, aiService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewWorkItemHandler(models.KindTask, workItemService)
	bugHandler := handlers.NewWorkItemHandler(models.KindBug, workItemService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ProjectHub API is running",
		})
	})

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

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.PUT("/:id/status", projectHandler.ChangeProjectStatus)
			projects.PUT("/:id/members/:user_id", projectHandler.ChangeMemberRole)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		// Task and bug routes (protected); the two kinds share handlers
		for prefix, handler := range map[string]*handlers.WorkItemHandler{
			"/tasks": taskHandler,
			"/bugs":  bugHandler,
		} {
			items := api.Group(prefix)
			items.Use(middleware.RequireAuth())
			{
				items.GET("", handler.ListWorkItems)
				items.POST("", handler.CreateWorkItem)
				items.POST("/generate", handler.GenerateWorkItems)
				items.GET("/:id", handler.GetWorkItem)
				items.PATCH("/:id", handler.UpdateWorkItem)
				items.PUT("/:id/status", handler.UpdateWorkItemStatus)
				items.DELETE("/:id", handler.DeleteWorkItem)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
