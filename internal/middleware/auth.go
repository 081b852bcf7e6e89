package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

// UserLoader resolves the account behind an authenticated request.
type UserLoader interface {
	GetUser(id uint64) (*models.User, error)
}

// TokenParser validates bearer access tokens.
type TokenParser interface {
	ParseAccess(token string) (uint64, error)
}

// RequireAuth authenticates the request with a bearer token, an
// access_token query parameter (browsers cannot set headers on websocket
// upgrades) or the session cookie, in that order. tokens may be nil.
func RequireAuth(users UserLoader, tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveUserID(c, tokens)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.GetUser(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "Failed to load user")
			}
			c.Abort()
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func resolveUserID(c *gin.Context, tokens TokenParser) (uint64, bool) {
	if raw := bearerToken(c); raw != "" {
		if tokens == nil {
			return 0, false
		}
		id, err := tokens.ParseAccess(raw)
		if err != nil {
			return 0, false
		}
		return id, true
	}

	session := sessions.Default(c)
	return toUint64(session.Get(constants.ContextKeyUserID))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.Query(constants.AccessTokenQueryKey))
}

// CurrentUser returns the user loaded by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
