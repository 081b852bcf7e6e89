package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/notify"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

// CommentService manages the discussion attached to tasks.
type CommentService struct {
	comments repository.CommentRepository
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	events   notify.Emitter
	now      func() time.Time
}

func NewCommentService(
	comments repository.CommentRepository,
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	events notify.Emitter,
) *CommentService {
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		projects: projects,
		users:    users,
		events:   events,
		now:      time.Now,
	}
}

// AddComment attaches a comment to the task and tells the executor about it.
// Any authenticated user may comment on an existing task.
func (s *CommentService) AddComment(ctx context.Context, actor *models.User, taskID uint64, text string) (*models.Comment, error) {
	task, project, err := s.load(taskID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextEmpty
	}

	comment := &models.Comment{
		TaskID:      task.ID,
		Text:        text,
		DateCreated: s.now(),
	}
	if actor != nil {
		comment.AuthorID = &actor.ID
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if task.ExecutorID != nil {
		if executor, err := s.users.FindByID(*task.ExecutorID); err == nil {
			s.events.Emit(ctx, notify.Event{
				Kind:           notify.CommentAdded,
				RecipientID:    executor.ID,
				RecipientEmail: executor.Email,
				ActorID:        actorID(actor),
				ProjectID:      project.ID,
				ProjectTitle:   project.Title,
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				Text:           text,
			})
		}
	}

	return comment, nil
}

// ListComments returns the task's comments, oldest first.
func (s *CommentService) ListComments(taskID uint64) ([]models.Comment, error) {
	if _, _, err := s.load(taskID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment replaces the text of a comment that belongs to the task.
func (s *CommentService) UpdateComment(taskID, commentID uint64, text string) (*models.Comment, error) {
	comment, err := s.find(taskID, commentID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextEmpty
	}

	comment.Text = text
	if err := s.comments.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment that belongs to the task.
func (s *CommentService) DeleteComment(taskID, commentID uint64) error {
	if _, err := s.find(taskID, commentID); err != nil {
		return err
	}

	if err := s.comments.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// find resolves a comment by id within its task.
func (s *CommentService) find(taskID, commentID uint64) (*models.Comment, error) {
	if _, _, err := s.load(taskID); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if comment.TaskID != taskID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *CommentService) load(taskID uint64) (*models.Task, *models.Project, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find project of task %d: %w", task.ID, err)
	}
	return task, project, nil
}
