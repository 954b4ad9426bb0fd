package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// Handlers groups every resource handler mounted by RegisterRoutes
type Handlers struct {
	Auth         *AuthHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Comment      *CommentHandler
	History      *HistoryHandler
	Notification *NotificationHandler
	Report       *ReportHandler
}

// RegisterRoutes mounts the API on r. requireAuth guards every route except
// health, register, login and logout.
func RegisterRoutes(r *gin.Engine, h Handlers, requireAuth gin.HandlerFunc) {
	r.GET("/health", Health)

	api := r.Group("/api")
	api.GET("/health", Health)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		auth.GET("/users", requireAuth, h.Auth.ListUsers)
	}

	projectID := middleware.ParseIDParam("id", "project")
	projects := api.Group("/projects", requireAuth)
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:id", projectID, h.Project.GetProject)
		projects.PUT("/:id", projectID, h.Project.UpdateProject)
		projects.DELETE("/:id", projectID, h.Project.DeleteProject)
	}

	taskID := middleware.ParseIDParam("id", "task")
	tasks := api.Group("/tasks", requireAuth)
	{
		tasks.GET("", h.Task.ListTasks)
		tasks.POST("", h.Task.CreateTask)
		tasks.POST("/search", h.Task.SearchTasks)
		tasks.POST("/generate", h.Task.GenerateTasks)
		tasks.GET("/:id", taskID, h.Task.GetTask)
		tasks.PUT("/:id", taskID, h.Task.UpdateTask)
		tasks.DELETE("/:id", taskID, h.Task.DeleteTask)
	}

	comments := api.Group("/comments", requireAuth)
	{
		comments.GET("/task/:taskId", middleware.ParseIDParam("taskId", "task"), h.Comment.ListTaskComments)
		comments.POST("", h.Comment.CreateComment)
		comments.DELETE("/:id", middleware.ParseIDParam("id", "comment"), h.Comment.DeleteComment)
	}

	history := api.Group("/history", requireAuth)
	{
		history.GET("", h.History.ListRecent)
		history.GET("/task/:taskId", middleware.ParseIDParam("taskId", "task"), h.History.ListTaskHistory)
	}

	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", h.Notification.ListNotifications)
		notifications.PUT("/mark-read", h.Notification.MarkRead)
		notifications.DELETE("/:id", h.Notification.DeleteNotification)
	}

	reports := api.Group("/reports", requireAuth)
	{
		reports.GET("/tasks", h.Report.TaskStats)
		reports.GET("/projects", h.Report.ProjectStats)
		reports.GET("/users", middleware.RequireRole(models.RoleAdmin), h.Report.UserStats)
		reports.GET("/export-csv", h.Report.ExportCSV)
	}

	r.NoRoute(NotFound)
}

// Health reports that the process is up
func Health(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Task Tracker API is running",
	})
}

// NotFound answers unknown API paths with the error envelope
func NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		apierrors.NotFound(c, "Route not found")
		return
	}
	c.String(http.StatusNotFound, "404 page not found")
}
