package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

var taskSortFields = map[string]string{
	"id":           "id",
	"title":        "title",
	"status":       "status",
	"priority":     "priority",
	"deadline":     "deadline",
	"date_created": "date_created",
	"date_updated": "date_updated",
}

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks matching the query filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter, err := taskFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.taskService.ListTasks(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// GetTask returns a specific task by ID
// Task is already loaded by LoadTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	type CreateTaskRequest struct {
		Title       string               `json:"title" binding:"required,max=100"`
		Description string               `json:"description" binding:"required,max=1000"`
		Project     uint64               `json:"project" binding:"required"`
		Executor    string               `json:"executor" binding:"required"`
		Tester      *string              `json:"tester"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		Deadline    *time.Time           `json:"deadline" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		ProjectID:   req.Project,
		Title:       req.Title,
		Description: req.Description,
		Executor:    req.Executor,
		Tester:      req.Tester,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    *req.Deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask applies a partial update. The project of a task cannot change.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title" binding:"omitempty,max=100"`
		Description *string              `json:"description" binding:"omitempty,max=1000"`
		Executor    *string              `json:"executor"`
		Tester      *string              `json:"tester"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		Deadline    *time.Time           `json:"deadline"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), actor, task.ID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Executor:    req.Executor,
		Tester:      req.Tester,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated",
		"task":    dto.ToTaskDTO(*updated),
	})
}

// DeleteTask deletes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	task, ok := middleware.CurrentTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(actor, task.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func taskFilterFromQuery(c *gin.Context) (repository.TaskFilter, error) {
	var filter repository.TaskFilter
	var err error

	if filter.ProjectID, err = utils.QueryUint(c, "project"); err != nil {
		return filter, err
	}
	if filter.ExecutorID, err = utils.QueryUint(c, "executor"); err != nil {
		return filter, err
	}
	if filter.TesterID, err = utils.QueryUint(c, "tester"); err != nil {
		return filter, err
	}
	filter.Status = utils.QueryString(c, "status")
	if filter.Priority, err = utils.QueryInt(c, "priority"); err != nil {
		return filter, err
	}
	if filter.DeadlineAfter, err = utils.QueryTime(c, "deadline_after"); err != nil {
		return filter, err
	}
	if filter.DeadlineBefore, err = utils.QueryTime(c, "deadline_before"); err != nil {
		return filter, err
	}
	if filter.Sort, err = utils.ParseSort(c.Query("sort"), taskSortFields); err != nil {
		return filter, err
	}
	return filter, nil
}
