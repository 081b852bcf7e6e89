package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/notify"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	users     repository.UserRepository
	hirings   repository.HiringRepository
	authz     *Authorizer
	events    notify.Emitter
	suggester TaskSuggester
	now       func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil.
func NewTaskService(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	hirings repository.HiringRepository,
	events notify.Emitter,
	suggester TaskSuggester,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		users:     users,
		hirings:   hirings,
		authz:     NewAuthorizer(hirings),
		events:    events,
		suggester: suggester,
		now:       time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	// Executor and Tester are user emails
	Executor string
	Tester   *string
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Deadline time.Time
}

// UpdateTaskInput represents input for updating a task. An empty Tester
// clears the tester.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Executor    *string
	Tester      *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	Deadline    *time.Time
}

// CreateTask validates and stores a task, then notifies its executor.
func (s *TaskService) CreateTask(ctx context.Context, actor *models.User, input CreateTaskInput) (*models.Task, error) {
	project, err := s.projects.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownProject, input.ProjectID)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return nil, err
	}

	title, err := validTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(project.ID, title, 0); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Executor) == "" {
		return nil, ErrExecutorRequired
	}
	executor, err := s.resolveAssignee(project.ID, input.Executor)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		ProjectID:   project.ID,
		ExecutorID:  &executor.ID,
		Status:      models.TaskStatusGrooming,
		Priority:    models.PriorityLow,
		Deadline:    input.Deadline,
	}

	if input.Tester != nil && strings.TrimSpace(*input.Tester) != "" {
		tester, err := s.resolveAssignee(project.ID, *input.Tester)
		if err != nil {
			return nil, err
		}
		task.TesterID = &tester.ID
	}
	if input.Status != nil {
		if !validTaskStatus(*input.Status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *input.Status)
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, *input.Priority)
		}
		task.Priority = *input.Priority
	}

	now := s.now()
	task.DateCreated = now
	task.DateUpdated = now

	if err := s.tasks.Create(task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTaskTitleTaken
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.events.Emit(ctx, assignedEvent(actor, project, task, executor))

	return s.GetTask(task.ID)
}

// UpdateTask applies a partial update. A status change notifies the executor
// once; a new executor is told about the assignment.
func (s *TaskService) UpdateTask(ctx context.Context, actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectOf(task)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	oldExecutorID := task.ExecutorID

	if input.Title != nil {
		title, err := validTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		if title != task.Title {
			if err := s.ensureTitleFree(task.ProjectID, title, task.ID); err != nil {
				return nil, err
			}
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	var executor *models.User
	if input.Executor != nil {
		if strings.TrimSpace(*input.Executor) == "" {
			return nil, ErrExecutorRequired
		}
		executor, err = s.resolveAssignee(task.ProjectID, *input.Executor)
		if err != nil {
			return nil, err
		}
		task.ExecutorID = &executor.ID
	}
	if input.Tester != nil {
		if strings.TrimSpace(*input.Tester) == "" {
			task.TesterID = nil
		} else {
			tester, err := s.resolveAssignee(task.ProjectID, *input.Tester)
			if err != nil {
				return nil, err
			}
			task.TesterID = &tester.ID
		}
	}
	if input.Status != nil {
		if !validTaskStatus(*input.Status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *input.Status)
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}

	task.DateUpdated = s.now()
	task.Executor, task.Tester = nil, nil
	if err := s.tasks.Update(task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTaskTitleTaken
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	var events []notify.Event
	if executor != nil && !sameID(oldExecutorID, task.ExecutorID) {
		events = append(events, assignedEvent(actor, project, task, executor))
	}
	if task.Status != oldStatus && task.ExecutorID != nil {
		recipient, err := s.users.FindByID(*task.ExecutorID)
		if err == nil {
			events = append(events, notify.Event{
				Kind:           notify.TaskStatusChanged,
				RecipientID:    recipient.ID,
				RecipientEmail: recipient.Email,
				ActorID:        actorID(actor),
				ProjectID:      project.ID,
				ProjectTitle:   project.Title,
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				OldStatus:      oldStatus,
				NewStatus:      task.Status,
			})
		}
	}
	s.events.Emit(ctx, events...)

	return s.GetTask(task.ID)
}

// DeleteTask deletes a task and its comments
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}
	project, err := s.projectOf(task)
	if err != nil {
		return err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return err
	}

	if err := s.tasks.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GetTask returns a task with executor and tester loaded
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID, "Executor", "Tester")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the filter
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, error) {
	if filter.Status != nil && !validTaskStatus(models.TaskStatus(*filter.Status)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *filter.Status)
	}
	if filter.Priority != nil && !validPriority(models.TaskPriority(*filter.Priority)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, *filter.Priority)
	}

	tasks, err := s.tasks.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListProjectTasks returns the tasks of one project
func (s *TaskService) ListProjectTasks(projectID uint64, filter repository.TaskFilter) ([]models.Task, error) {
	if _, err := s.projects.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	filter.ProjectID = &projectID
	return s.ListTasks(filter)
}

// SuggestTasks drafts tasks for a project from free text. Nothing is stored.
func (s *TaskService) SuggestTasks(ctx context.Context, actor *models.User, projectID uint64, text string) ([]GeneratedTask, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return nil, err
	}
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextEmpty
	}

	aiTasks, err := s.suggester.SuggestTasks(ctx, project.Title, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" || utf8.RuneCountInString(aiTask.Title) > constants.MaxTitleLength {
			continue
		}
		if !validPriority(models.TaskPriority(aiTask.Priority)) {
			aiTask.Priority = int(models.PriorityLow)
		}
		if aiTask.Deadline != nil && aiTask.Deadline.Before(cutoff) {
			aiTask.Deadline = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// resolveAssignee returns the member with the given email
func (s *TaskService) resolveAssignee(projectID uint64, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsStaff {
		return nil, fmt.Errorf("%w: %s", ErrStaffNotEligible, user.Email)
	}

	member, err := s.hirings.IsMember(projectID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("%w: %s", ErrUserNotInProject, user.Email)
	}
	return user, nil
}

func (s *TaskService) ensureTitleFree(projectID uint64, title string, excludeID uint64) error {
	exists, err := s.tasks.TitleExists(projectID, title, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check task title: %w", err)
	}
	if exists {
		return ErrTaskTitleTaken
	}
	return nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) projectOf(task *models.Task) (*models.Project, error) {
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project of task %d: %w", task.ID, err)
	}
	return project, nil
}

func assignedEvent(actor *models.User, project *models.Project, task *models.Task, executor *models.User) notify.Event {
	return notify.Event{
		Kind:           notify.TaskAssigned,
		RecipientID:    executor.ID,
		RecipientEmail: executor.Email,
		ActorID:        actorID(actor),
		ProjectID:      project.ID,
		ProjectTitle:   project.Title,
		TaskID:         task.ID,
		TaskTitle:      task.Title,
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	return title, nil
}

func validTaskStatus(status models.TaskStatus) bool {
	switch status {
	case models.TaskStatusGrooming, models.TaskStatusInProgress, models.TaskStatusDev, models.TaskStatusDone:
		return true
	}
	return false
}

func validPriority(p models.TaskPriority) bool {
	return p >= models.PriorityLow && p <= models.PriorityHigh
}

func sameID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func actorID(actor *models.User) uint64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
