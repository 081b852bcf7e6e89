package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

var projectSortFields = map[string]string{
	"id":           "id",
	"title":        "title",
	"status":       "status",
	"date_created": "date_created",
	"date_updated": "date_updated",
}

type ProjectHandler struct {
	projectService    *services.ProjectService
	membershipService *services.MembershipService
	taskService       *services.TaskService
}

func NewProjectHandler(
	projectService *services.ProjectService,
	membershipService *services.MembershipService,
	taskService *services.TaskService,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		membershipService: membershipService,
		taskService:       taskService,
	}
}

// ListProjects returns public projects matching the query filters
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var filter repository.ProjectFilter
	var err error

	filter.Status = utils.QueryString(c, "status")
	filter.Title = utils.QueryString(c, "title")
	if filter.OwnerID, err = utils.QueryUint(c, "owner"); err != nil {
		respondError(c, err)
		return
	}
	if filter.Sort, err = utils.ParseSort(c.Query("sort"), projectSortFields); err != nil {
		respondError(c, err)
		return
	}

	projects, err := h.projectService.ListProjects(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectDTOs(projects),
	})
}

// CreateProject creates a project owned by the current user and hires the
// listed users
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	type CreateProjectRequest struct {
		Title       string               `json:"title" binding:"required,max=100"`
		Description string               `json:"description" binding:"required,max=1000"`
		Status      models.ProjectStatus `json:"status" binding:"required,oneof=active archive"`
		Private     *bool                `json:"private" binding:"required"`
		Users       []string             `json:"users" binding:"required,dive,email"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actor, services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Private:     *req.Private,
		Users:       req.Users,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created",
		"project": dto.ToProjectDTO(*project),
	})
}

// GetProject returns a project by id, private or not
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type UpdateProjectRequest struct {
		Title       *string               `json:"title" binding:"omitempty,max=100"`
		Description *string               `json:"description" binding:"omitempty,max=1000"`
		Status      *models.ProjectStatus `json:"status" binding:"omitempty,oneof=active archive"`
		Private     *bool                 `json:"private"`
		Users       []string              `json:"users" binding:"omitempty,dive,email"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	updated, err := h.projectService.UpdateProject(c.Request.Context(), actor, project.ID, services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Private:     req.Private,
		Users:       req.Users,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated",
		"project": dto.ToProjectDTO(*updated),
	})
}

// DeleteProject deletes a project with its tasks and hirings
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(actor, project.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListRoles returns the members of a project with their roles
func (h *ProjectHandler) ListRoles(c *gin.Context) {
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	members, err := h.membershipService.ListMembers(project.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToMemberDTOs(members),
	})
}

// SetRole changes the role of an existing member
func (h *ProjectHandler) SetRole(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type SetRoleRequest struct {
		Email         string `json:"email" binding:"required,email"`
		RoleInProject string `json:"role_in_project" binding:"required,max=100"`
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	hiring, err := h.membershipService.SetRole(c.Request.Context(), actor, project.ID, req.Email, req.RoleInProject)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
		"member":  dto.ToMemberDTO(*hiring),
	})
}

// AddMember hires a user into the project. Hiring an existing member changes
// nothing.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddMemberRequest struct {
		Email         string `json:"email" binding:"required,email"`
		RoleInProject string `json:"role_in_project" binding:"max=100"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	hiring, err := h.membershipService.AddMember(c.Request.Context(), actor, project.ID, req.Email, req.RoleInProject)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Member added",
		"member":  dto.ToMemberDTO(*hiring),
	})
}

// RemoveMembers dismisses every member of the project
func (h *ProjectHandler) RemoveMembers(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.membershipService.RemoveAllForProject(c.Request.Context(), actor, project.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Members removed",
	})
}

// ListProjectTasks returns the tasks of the project
func (h *ProjectHandler) ListProjectTasks(c *gin.Context) {
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	filter, err := taskFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.taskService.ListProjectTasks(project.ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// GenerateTasks drafts task suggestions for the project from free text
func (h *ProjectHandler) GenerateTasks(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	project, ok := middleware.CurrentProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	tasks, err := h.taskService.SuggestTasks(c.Request.Context(), actor, project.ID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
	})
}
