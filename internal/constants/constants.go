package constants

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
	SessionCookieName = "task_session"
)

const (
	MinPasswordLength   = 8
	DefaultRole         = "programmer"
	MaxRoleLength       = 100
	MaxAIGeneratedTasks = 20
	AccessTokenQueryKey = "access_token"
)

// Query values that mean "no constraint" in list filters.
var FilterSentinels = []string{"", "any", "all"}

// Column limits shared by validation and models
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
)
