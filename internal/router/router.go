package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/auth"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/handlers"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"gorm.io/gorm"
)

// Options carries what the router needs besides the database.
type Options struct {
	Tokens      *auth.JWTManager
	CORSOrigins []string
	// Drafter backs POST /tasks/generate/; nil answers 503.
	Drafter services.TaskDrafter
}

func New(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, opts.Tokens)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, opts.Drafter)

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(db)

	requireAuth := middleware.RequireAuth(opts.Tokens, userRepo)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		api.POST("/signup/", authHandler.Signup)
		api.POST("/login/", authHandler.Login)
		api.POST("/token/refresh/", authHandler.Refresh)
		api.GET("/me/", requireAuth, authHandler.GetCurrentUser)
	}

	projects := r.Group("/projects")
	projects.Use(requireAuth)
	{
		projectID := middleware.RequireResourceID("No Project matches the given query.")

		projects.GET("/", projectHandler.ListProjects)
		projects.POST("/", projectHandler.CreateProject)
		projects.GET("/:id/", projectID, projectHandler.GetProject)
		projects.PUT("/:id/", projectID, projectHandler.UpdateProject)
		projects.PATCH("/:id/", projectID, projectHandler.PartialUpdateProject)
		projects.DELETE("/:id/", projectID, projectHandler.DeleteProject)
		projects.POST("/:id/restore/", projectID, projectHandler.RestoreProject)
	}

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		taskID := middleware.RequireResourceID("No Task matches the given query.")

		tasks.GET("/", taskHandler.ListTasks)
		tasks.POST("/", taskHandler.CreateTask)
		tasks.POST("/generate/", taskHandler.GenerateTasks)
		tasks.GET("/:id/", taskID, taskHandler.GetTask)
		tasks.PUT("/:id/", taskID, taskHandler.UpdateTask)
		tasks.PATCH("/:id/", taskID, taskHandler.PartialUpdateTask)
		tasks.DELETE("/:id/", taskID, taskHandler.DeleteTask)
		tasks.POST("/:id/restore/", taskID, taskHandler.RestoreTask)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", constants.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", constants.HeaderRequestID, constants.HeaderTotalCount},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
