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

// MembershipService owns the Hiring ledger: who belongs to which project, in
// which role, and the history log each join leaves on the user.
type MembershipService struct {
	projects repository.ProjectRepository
	hirings  repository.HiringRepository
	users    repository.UserRepository
	authz    *Authorizer
	events   notify.Emitter
	now      func() time.Time
}

func NewMembershipService(
	projects repository.ProjectRepository,
	hirings repository.HiringRepository,
	users repository.UserRepository,
	events notify.Emitter,
) *MembershipService {
	return &MembershipService{
		projects: projects,
		hirings:  hirings,
		users:    users,
		authz:    NewAuthorizer(hirings),
		events:   events,
		now:      time.Now,
	}
}

// AddMember hires the user with the given email into the project. Hiring an
// existing member changes nothing and emits nothing.
func (s *MembershipService) AddMember(ctx context.Context, actor *models.User, projectID uint64, email, role string) (*models.Hiring, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return nil, err
	}

	role, err = normalizeRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	result, events, err := s.addMember(actor, project, user, role)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, events...)

	hiring := result.Hiring
	hiring.User = *user
	return &hiring, nil
}

// addMember is the single path every hiring goes through. It returns the
// events to emit once the caller's whole operation has committed.
func (s *MembershipService) addMember(actor *models.User, project *models.Project, user *models.User, role string) (*repository.AddMemberResult, []notify.Event, error) {
	if user.IsStaff {
		return nil, nil, fmt.Errorf("%w: %s", ErrStaffNotEligible, user.Email)
	}
	if role == "" {
		role = constants.DefaultRole
	}

	result, err := s.hirings.AddMember(models.Hiring{
		UserID:        user.ID,
		ProjectID:     project.ID,
		RoleInProject: role,
		DateJoined:    s.now(),
	}, project.Title)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add member: %w", err)
	}

	return result, joinedEvents(actor, project, user, result), nil
}

// joinedEvents announces a hiring that was created and recorded in the
// user's history. Re-adding an existing member announces nothing.
func joinedEvents(actor *models.User, project *models.Project, user *models.User, result *repository.AddMemberResult) []notify.Event {
	if !result.Created || !result.Joined {
		return nil
	}
	return []notify.Event{{
		Kind:           notify.MemberJoined,
		RecipientID:    user.ID,
		RecipientEmail: user.Email,
		ActorID:        actorID(actor),
		ProjectID:      project.ID,
		ProjectTitle:   project.Title,
	}}
}

// SetRole changes the role of an existing member.
func (s *MembershipService) SetRole(ctx context.Context, actor *models.User, projectID uint64, email, role string) (*models.Hiring, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return nil, err
	}

	role, err = normalizeRole(role)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, ErrRoleEmpty
	}

	user, err := s.users.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hiring, err := s.hirings.FindMember(project.ID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.hirings.UpdateRole(project.ID, user.ID, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	hiring.RoleInProject = role
	hiring.User = *user
	return hiring, nil
}

// ListMembers returns the project's hirings with users loaded.
func (s *MembershipService) ListMembers(projectID uint64) ([]models.Hiring, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}

	members, err := s.hirings.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// RemoveAllForProject dismisses every member of the project. Tasks keep
// their executor and tester references.
func (s *MembershipService) RemoveAllForProject(ctx context.Context, actor *models.User, projectID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return err
	}

	if err := s.hirings.DeleteByProject(projectID); err != nil {
		return fmt.Errorf("failed to remove members: %w", err)
	}
	return nil
}

// RemoveAllForUser dismisses the user from every project.
func (s *MembershipService) RemoveAllForUser(userID uint64) error {
	if err := s.hirings.DeleteByUser(userID); err != nil {
		return fmt.Errorf("failed to remove memberships: %w", err)
	}
	return nil
}

func (s *MembershipService) findProject(id uint64) (*models.Project, error) {
	project, err := s.projects.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func normalizeRole(role string) (string, error) {
	role = strings.TrimSpace(role)
	if utf8.RuneCountInString(role) > constants.MaxRoleLength {
		return "", ErrRoleTooLong
	}
	return role, nil
}
