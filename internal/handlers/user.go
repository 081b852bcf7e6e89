package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
)

// MaxAvatarSize bounds avatar uploads.
const MaxAvatarSize = 5 << 20

// UserHandler serves profiles and the people picker.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMyProfile returns the authenticated user's profile.
func (h *UserHandler) GetMyProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	h.writeProfile(c, userID)
}

// GetProfile returns another user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.writeProfile(c, userID)
}

func (h *UserHandler) writeProfile(c *gin.Context, userID uint64) {
	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileDTO(profile))
}

// ListUsers returns the users that can be hired or assigned.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListEligible()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// UpdateAvatar stores the multipart "avatar" file as the user's avatar.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAvatarSize+1<<10)
	header, err := c.FormFile("avatar")
	if err != nil {
		apierrors.ValidationFailed(c, "An avatar file is required", map[string]string{"avatar": "required"})
		return
	}
	if header.Size > MaxAvatarSize {
		apierrors.ValidationFailed(c, "Avatar is too large", map[string]string{"avatar": "max=5MB"})
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read avatar")
		return
	}
	defer file.Close()

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, services.AvatarUpload{
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Avatar updated",
		"user":    dto.ToUserDTO(*user),
	})
}

// PromoteToStaff makes a user staff. Staff only.
func (h *UserHandler) PromoteToStaff(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.PromoteToStaff(actor, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User promoted to staff",
		"user":    dto.ToUserDTO(*user),
	})
}
