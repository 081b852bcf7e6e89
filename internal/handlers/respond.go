package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

var validationErrors = []error{
	services.ErrTitleEmpty,
	services.ErrTextEmpty,
	services.ErrRoleEmpty,
	services.ErrRoleTooLong,
	services.ErrInvalidStatus,
	services.ErrInvalidPriority,
	services.ErrUnknownUser,
	services.ErrUnknownProject,
	services.ErrStaffNotEligible,
	services.ErrUserNotInProject,
	services.ErrExecutorRequired,
	services.ErrUnsupportedImage,
	services.ErrAINoTasksGenerated,
	services.ErrAINoValidTasks,
	utils.ErrInvalidSortField,
	utils.ErrInvalidQueryValue,
}

// respondError maps service errors to API error responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrProjectTitleTaken),
		errors.Is(err, services.ErrTaskTitleTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.ValidationFailed(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength),
			map[string]string{"password": fmt.Sprintf("min=%d", constants.MinPasswordLength)})
	case isValidationError(err):
		apierrors.ValidationFailed(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrStorageNotConfigured),
		errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
