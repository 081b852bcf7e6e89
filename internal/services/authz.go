package services

import (
	"fmt"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

// Authorizer decides who may mutate a project and everything inside it:
// staff, the project owner and project members.
type Authorizer struct {
	hirings repository.HiringRepository
}

func NewAuthorizer(hirings repository.HiringRepository) *Authorizer {
	return &Authorizer{hirings: hirings}
}

// CanManageProject returns ErrForbidden unless actor may mutate project.
func (a *Authorizer) CanManageProject(actor *models.User, project *models.Project) error {
	if actor == nil {
		return ErrForbidden
	}
	if actor.IsStaff {
		return nil
	}
	if project.OwnerID != nil && *project.OwnerID == actor.ID {
		return nil
	}

	member, err := a.hirings.IsMember(project.ID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	if !member {
		return ErrForbidden
	}
	return nil
}
