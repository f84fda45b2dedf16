package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Handlers struct {
	Project *apiHandler.ProjectHandler
	Task    *apiHandler.TaskHandler
	Tag     *apiHandler.TagHandler
	User    *apiHandler.UserHandler
	Report  *apiHandler.ReportHandler
	Health  *apiHandler.HealthHandler
}

// New builds the route table. Mutating task routes pass through the actor
// middleware so every change carries an attributable changed_by.
func New(handlers Handlers, requireActor func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Projects
	r.GET("/api/v1/projects", handlers.Project.List)
	r.POST("/api/v1/projects", handlers.Project.Create)
	r.GET("/api/v1/projects/{id}", handlers.Project.Get)
	r.PUT("/api/v1/projects/{id}", handlers.Project.Update)
	r.DELETE("/api/v1/projects/{id}", handlers.Project.Delete)
	r.GET("/api/v1/projects/{id}/can-delete", handlers.Project.CanDelete)
	r.POST("/api/v1/projects/{id}/members", handlers.Project.AddMember)
	r.DELETE("/api/v1/projects/{id}/members/{userID}", handlers.Project.RemoveMember)
	r.GET("/api/v1/projects/{id}/tasks", handlers.Task.ListByProject)

	// Tasks
	r.POST("/api/v1/tasks", handlers.Task.Create)
	r.POST("/api/v1/tasks/search", handlers.Task.Search)
	r.GET("/api/v1/tasks/{id}", handlers.Task.Get)
	r.PUT("/api/v1/tasks/{id}", requireActor(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.Delete)
	r.PUT("/api/v1/tasks/{id}/status", requireActor(handlers.Task.ChangeStatus))
	r.PUT("/api/v1/tasks/{id}/assignee", requireActor(handlers.Task.Assign))
	r.DELETE("/api/v1/tasks/{id}/assignee", requireActor(handlers.Task.Unassign))
	r.POST("/api/v1/tasks/{id}/tags/{tagID}", requireActor(handlers.Task.AddTag))
	r.DELETE("/api/v1/tasks/{id}/tags/{tagID}", requireActor(handlers.Task.RemoveTag))
	r.GET("/api/v1/tasks/{id}/subtasks", handlers.Task.Subtasks)
	r.GET("/api/v1/tasks/{id}/history", handlers.Report.TaskHistory)

	// Tags
	r.GET("/api/v1/tags", handlers.Tag.List)
	r.POST("/api/v1/tags", handlers.Tag.Create)
	r.GET("/api/v1/tags/{id}", handlers.Tag.Get)
	r.PUT("/api/v1/tags/{id}", handlers.Tag.Rename)
	r.DELETE("/api/v1/tags/{id}", handlers.Tag.Delete)

	// Users
	r.GET("/api/v1/users", handlers.User.List)
	r.POST("/api/v1/users", handlers.User.Create)
	r.GET("/api/v1/users/{id}", handlers.User.Get)
	r.PUT("/api/v1/users/{id}", handlers.User.Update)
	r.DELETE("/api/v1/users/{id}", handlers.User.Delete)
	r.GET("/api/v1/users/{id}/tasks", handlers.Task.ListByAssignee)
	r.GET("/api/v1/users/{id}/projects", handlers.User.Projects)

	// Reports
	r.GET("/api/v1/reports/overdue", handlers.Report.Overdue)
	r.GET("/api/v1/reports/due-soon", handlers.Report.DueSoon)
	r.GET("/api/v1/reports/projects/{id}/status-distribution", handlers.Report.StatusDistribution)
	r.GET("/api/v1/reports/projects/{id}/statistics", handlers.Report.ProjectStatistics)
	r.GET("/api/v1/reports/projects/{id}/health", handlers.Report.ProjectHealth)
	r.GET("/api/v1/reports/projects/{id}/productivity", handlers.Report.TeamProductivity)
	r.GET("/api/v1/reports/productivity/weekly", handlers.Report.WeeklyProductivity)
	r.GET("/api/v1/reports/tags/most-used", handlers.Report.MostUsedTags)

	return r
}
