package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

// ProjectLoader finds a project by id.
type ProjectLoader interface {
	GetProject(id uint64) (*models.Project, error)
}

// LoadProject resolves the :id path parameter to a project so handlers
// never run against a missing row.
func LoadProject(projects ProjectLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		project, err := projects.GetProject(projectID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
			} else {
				apierrors.InternalError(c, "Failed to load project")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// CurrentProject returns the project loaded by LoadProject.
func CurrentProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok && project != nil
}
