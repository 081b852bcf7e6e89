package repository

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByEmails returns the users matching the given emails
	FindByEmails(emails []string) ([]models.User, error)

	// ListEligible lists the users that may be hired into projects
	ListEligible() ([]models.User, error)

	// UpdateAvatar replaces the avatar reference of a user
	UpdateAvatar(id uint64, avatar string) error

	// SetStaff grants or revokes staff status
	SetStaff(id uint64, staff bool) error
}

// ProjectFilter holds filtering options for listing public projects
type ProjectFilter struct {
	Status  *string
	Title   *string
	OwnerID *uint64
	Sort    *utils.SortOrder
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// CreateWithMembers creates a project and its hirings atomically
	CreateWithMembers(project *models.Project, members []models.Hiring) ([]AddMemberResult, error)

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// TitleExists reports whether another project already uses the title
	TitleExists(title string, excludeID uint64) (bool, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project with its tasks, comments and hirings
	Delete(id uint64) error

	// List lists public projects
	List(filter ProjectFilter) ([]models.Project, error)
}

// AddMemberResult describes what AddMember changed
type AddMemberResult struct {
	Hiring models.Hiring
	// Created is true when a new hiring row was inserted
	Created bool
	// Joined is true when the project title was appended to the user's history
	Joined bool
}

// HiringRepository defines the interface for project membership data access
type HiringRepository interface {
	// AddMember inserts the hiring if absent and records the project in the
	// user's history, atomically
	AddMember(hiring models.Hiring, projectTitle string) (*AddMemberResult, error)

	// IsMember reports whether a hiring exists for the pair
	IsMember(projectID, userID uint64) (bool, error)

	// FindMember finds the hiring for the pair
	FindMember(projectID, userID uint64) (*models.Hiring, error)

	// UpdateRole sets the role of an existing hiring
	UpdateRole(projectID, userID uint64, role string) error

	// ListMembers lists the hirings of a project with users preloaded
	ListMembers(projectID uint64) ([]models.Hiring, error)

	// ListByUser lists the hirings of a user with projects preloaded
	ListByUser(userID uint64) ([]models.Hiring, error)

	// DeleteByProject removes every hiring of a project
	DeleteByProject(projectID uint64) error

	// DeleteByUser removes every hiring of a user
	DeleteByUser(userID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID      *uint64
	ExecutorID     *uint64
	TesterID       *uint64
	Status         *string
	Priority       *int
	DeadlineAfter  *time.Time
	DeadlineBefore *time.Time
	Sort           *utils.SortOrder
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// TitleExists reports whether another task in the project uses the title
	TitleExists(projectID uint64, title string, excludeID uint64) (bool, error)

	// List retrieves tasks with filtering and sorting
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its comments
	Delete(id uint64) error

	// ClearAssignee unsets the user as executor or tester on every task
	ClearAssignee(userID uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint64) (*models.Comment, error)
	ListByTask(taskID uint64) ([]models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id uint64) error
}
