// Package server assembles the HTTP surface.
package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/handlers"
	"github.com/yukikurage/task-tracker/internal/hub"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	SessionStore    sessions.Store
	WSAllowedOrigin string

	Auth       *services.AuthService
	Tokens     *services.TokenService
	Users      *services.UserService
	Membership *services.MembershipService
	Projects   *services.ProjectService
	Tasks      *services.TaskService
	Comments   *services.CommentService

	Hub       *hub.Hub
	Publisher hub.Publisher
}

// NewRouter builds the gin engine. Everything under /api/v1 except
// registration, login, refresh and logout requires authentication.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, d.SessionStore))

	publisher := d.Publisher
	if publisher == nil {
		publisher = d.Hub
	}

	authHandler := handlers.NewAuthHandler(d.Auth, d.Tokens)
	userHandler := handlers.NewUserHandler(d.Users)
	projectHandler := handlers.NewProjectHandler(d.Projects, d.Membership, d.Tasks)
	taskHandler := handlers.NewTaskHandler(d.Tasks)
	commentHandler := handlers.NewCommentHandler(d.Comments)
	wsHandler := handlers.NewWSHandler(d.Hub, publisher, d.WSAllowedOrigin)

	requireAuth := middleware.RequireAuth(d.Auth, d.Tokens)
	loadProject := middleware.LoadProject(d.Projects)
	loadTask := middleware.LoadTask(d.Tasks)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/token/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, userHandler.GetMyProfile)
		}

		profile := api.Group("/profile")
		profile.Use(requireAuth)
		{
			profile.GET("", userHandler.GetMyProfile)
			profile.PUT("/avatar", userHandler.UpdateAvatar)
			profile.GET("/:id", userHandler.GetProfile)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.PUT("/:id/staff", userHandler.PromoteToStaff)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", loadProject, projectHandler.GetProject)
			projects.PUT("/:id", loadProject, projectHandler.UpdateProject)
			projects.DELETE("/:id", loadProject, projectHandler.DeleteProject)
			projects.GET("/:id/roles", loadProject, projectHandler.ListRoles)
			projects.PUT("/:id/roles", loadProject, projectHandler.SetRole)
			projects.POST("/:id/members", loadProject, projectHandler.AddMember)
			projects.DELETE("/:id/members", loadProject, projectHandler.RemoveMembers)
			projects.GET("/:id/tasks", loadProject, projectHandler.ListProjectTasks)
			projects.POST("/:id/tasks/generate", loadProject, projectHandler.GenerateTasks)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", loadTask, taskHandler.GetTask)
			tasks.PUT("/:id", loadTask, taskHandler.UpdateTask)
			tasks.DELETE("/:id", loadTask, taskHandler.DeleteTask)
			tasks.GET("/:id/comments", loadTask, commentHandler.ListComments)
			tasks.POST("/:id/comments", loadTask, commentHandler.AddComment)
			tasks.PUT("/:id/comments/:comment_id", loadTask, commentHandler.UpdateComment)
			tasks.DELETE("/:id/comments/:comment_id", loadTask, commentHandler.DeleteComment)
		}
	}

	ws := r.Group("/ws")
	ws.Use(requireAuth)
	{
		ws.GET("/chat", wsHandler.Chat)
		ws.GET("/notifications", wsHandler.Notifications)
	}

	return r
}
