package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ProjectID   uint64              `json:"project_id"`
	ExecutorID  *uint64             `json:"executor_id"`
	TesterID    *uint64             `json:"tester_id"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Deadline    time.Time           `json:"deadline"`
	DateCreated time.Time           `json:"date_created"`
	DateUpdated time.Time           `json:"date_updated"`
	Executor    *UserDTO            `json:"executor,omitempty"`
	Tester      *UserDTO            `json:"tester,omitempty"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID          uint64    `json:"id"`
	TaskID      uint64    `json:"task_id"`
	AuthorID    *uint64   `json:"author_id"`
	Text        string    `json:"text"`
	DateCreated time.Time `json:"date_created"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		ProjectID:   task.ProjectID,
		ExecutorID:  task.ExecutorID,
		TesterID:    task.TesterID,
		Status:      task.Status,
		Priority:    task.Priority,
		Deadline:    task.Deadline,
		DateCreated: task.DateCreated,
		DateUpdated: task.DateUpdated,
	}

	// Include executor and tester if preloaded
	if task.Executor != nil {
		executor := ToUserDTO(*task.Executor)
		dto.Executor = &executor
	}
	if task.Tester != nil {
		tester := ToUserDTO(*task.Tester)
		dto.Tester = &tester
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		result[i] = ToTaskDTO(t)
	}
	return result
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:          comment.ID,
		TaskID:      comment.TaskID,
		AuthorID:    comment.AuthorID,
		Text:        comment.Text,
		DateCreated: comment.DateCreated,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	result := make([]CommentDTO, len(comments))
	for i, c := range comments {
		result[i] = ToCommentDTO(c)
	}
	return result
}
