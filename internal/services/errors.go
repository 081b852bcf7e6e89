package services

import "errors"

var (
	// Not found
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrMemberNotFound  = errors.New("user is not a member of this project")

	// Conflicts
	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrProjectTitleTaken = errors.New("project with this title already exists")
	ErrTaskTitleTaken    = errors.New("task with this title already exists in the project")

	// Validation
	ErrPasswordTooShort = errors.New("password too short")
	ErrTitleEmpty       = errors.New("title cannot be empty")
	ErrTextEmpty        = errors.New("text cannot be empty")
	ErrRoleEmpty        = errors.New("role cannot be empty")
	ErrRoleTooLong      = errors.New("role is too long")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrUnknownUser      = errors.New("unknown user")
	ErrUnknownProject   = errors.New("unknown project")
	ErrStaffNotEligible = errors.New("staff accounts cannot take part in projects")
	ErrUserNotInProject = errors.New("user not in project")
	ErrExecutorRequired = errors.New("executor is required")
	ErrUnsupportedImage = errors.New("unsupported avatar image type")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("you are not allowed to modify this project")

	// Collaborators
	ErrFailedToHashPassword   = errors.New("failed to hash password")
	ErrStorageNotConfigured   = errors.New("object storage is not configured")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)
