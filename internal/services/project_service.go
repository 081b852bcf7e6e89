package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/notify"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projects   repository.ProjectRepository
	users      repository.UserRepository
	membership *MembershipService
	authz      *Authorizer
	events     notify.Emitter
	now        func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projects repository.ProjectRepository,
	users repository.UserRepository,
	hirings repository.HiringRepository,
	membership *MembershipService,
	events notify.Emitter,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		users:      users,
		membership: membership,
		authz:      NewAuthorizer(hirings),
		events:     events,
		now:        time.Now,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	Private     bool
	// Users are the emails of the initial members
	Users []string
}

// UpdateProjectInput holds a partial update. Users are added, never removed.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Status      *models.ProjectStatus
	Private     *bool
	Users       []string
}

// CreateProject creates a project owned by actor and hires the listed users.
// Nothing is written when any check fails.
func (s *ProjectService) CreateProject(ctx context.Context, actor *models.User, input CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleEmpty
	}
	if !validProjectStatus(input.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, input.Status)
	}

	if err := s.ensureTitleFree(title, 0); err != nil {
		return nil, err
	}

	members, err := s.resolveMembers(input.Users)
	if err != nil {
		return nil, err
	}

	now := s.now()
	project := &models.Project{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Private:     input.Private,
		DateCreated: now,
		DateUpdated: now,
	}
	if actor != nil {
		project.OwnerID = &actor.ID
	}

	hirings := make([]models.Hiring, len(members))
	for i, member := range members {
		hirings[i] = models.Hiring{
			UserID:        member.ID,
			RoleInProject: constants.DefaultRole,
			DateJoined:    now,
		}
	}

	results, err := s.projects.CreateWithMembers(project, hirings)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectTitleTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	var events []notify.Event
	for i := range results {
		events = append(events, joinedEvents(actor, project, &members[i], &results[i])...)
	}
	s.events.Emit(ctx, events...)

	return project, nil
}

// UpdateProject applies a partial update.
func (s *ProjectService) UpdateProject(ctx context.Context, actor *models.User, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		if title != project.Title {
			if err := s.ensureTitleFree(title, project.ID); err != nil {
				return nil, err
			}
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !validProjectStatus(*input.Status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *input.Status)
		}
		project.Status = *input.Status
	}
	if input.Private != nil {
		project.Private = *input.Private
	}

	members, err := s.resolveMembers(input.Users)
	if err != nil {
		return nil, err
	}

	project.DateUpdated = s.now()
	if err := s.projects.Update(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectTitleTaken
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	events, err := s.hire(actor, project, members)
	s.events.Emit(ctx, events...)
	if err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject removes the project with its tasks, comments and hirings.
func (s *ProjectService) DeleteProject(actor *models.User, projectID uint64) error {
	project, err := s.GetProject(projectID)
	if err != nil {
		return err
	}
	if err := s.authz.CanManageProject(actor, project); err != nil {
		return err
	}

	if err := s.projects.Delete(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// GetProject returns a project by id, private or not.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjects lists public projects.
func (s *ProjectService) ListProjects(filter repository.ProjectFilter) ([]models.Project, error) {
	if filter.Status != nil && !validProjectStatus(models.ProjectStatus(*filter.Status)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *filter.Status)
	}

	projects, err := s.projects.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) ensureTitleFree(title string, excludeID uint64) error {
	exists, err := s.projects.TitleExists(title, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check project title: %w", err)
	}
	if exists {
		return ErrProjectTitleTaken
	}
	return nil
}

// resolveMembers maps emails to hireable users, failing on the first unknown
// or staff account.
func (s *ProjectService) resolveMembers(emails []string) ([]models.User, error) {
	wanted := uniqueEmails(emails)
	if len(wanted) == 0 {
		return nil, nil
	}

	users, err := s.users.FindByEmails(wanted)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	byEmail := make(map[string]models.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}

	resolved := make([]models.User, 0, len(wanted))
	for _, email := range wanted {
		user, ok := byEmail[email]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, email)
		}
		if user.IsStaff {
			return nil, fmt.Errorf("%w: %s", ErrStaffNotEligible, email)
		}
		resolved = append(resolved, user)
	}
	return resolved, nil
}

func (s *ProjectService) hire(actor *models.User, project *models.Project, members []models.User) ([]notify.Event, error) {
	var events []notify.Event
	for i := range members {
		_, joined, err := s.membership.addMember(actor, project, &members[i], "")
		if err != nil {
			return events, err
		}
		events = append(events, joined...)
	}
	return events, nil
}

func validProjectStatus(status models.ProjectStatus) bool {
	return status == models.ProjectStatusActive || status == models.ProjectStatusArchive
}

func uniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	result := make([]string, 0, len(emails))

	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" {
			continue
		}
		if _, exists := seen[e]; exists {
			continue
		}
		seen[e] = struct{}{}
		result = append(result, e)
	}

	return result
}
