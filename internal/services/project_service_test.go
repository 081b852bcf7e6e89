package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/notify"
	"github.com/yukikurage/task-tracker/internal/repository"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	env   *serviceEnv
	ctx   context.Context
	alice *models.User
	bob   *models.User
}

func (s *ProjectServiceTestSuite) SetupTest() {
	s.env = newServiceEnv(s.T())
	s.ctx = context.Background()
	s.alice = s.env.user("alice@example.com")
	s.bob = s.env.user("bob@example.com")
}

func (s *ProjectServiceTestSuite) TestCreateProject_HiresListedUsers() {
	carol := s.env.user("carol@example.com")

	project, err := s.env.projects.CreateProject(s.ctx, s.alice, CreateProjectInput{
		Title:       "Apollo",
		Description: "moon",
		Status:      models.ProjectStatusActive,
		Users:       []string{"bob@example.com", "carol@example.com", "bob@example.com"},
	})
	s.Require().NoError(err)
	s.Equal(s.alice.ID, *project.OwnerID)
	s.False(project.DateCreated.IsZero())

	s.Equal(int64(2), s.env.count(&models.Hiring{}))
	s.Equal(models.StringList{"Apollo"}, s.env.reload(s.bob).History)
	s.Equal(models.StringList{"Apollo"}, s.env.reload(carol).History)

	joined := s.env.events.ofKind(notify.MemberJoined)
	s.Require().Len(joined, 2)
	s.ElementsMatch([]uint64{s.bob.ID, carol.ID}, []uint64{joined[0].RecipientID, joined[1].RecipientID})
}

func (s *ProjectServiceTestSuite) TestCreateProject_DuplicateTitleChangesNothing() {
	s.env.project(s.alice, "Apollo")
	s.env.events.reset()

	_, err := s.env.projects.CreateProject(s.ctx, s.alice, CreateProjectInput{
		Title:  "Apollo",
		Status: models.ProjectStatusActive,
		Users:  []string{"bob@example.com"},
	})
	s.ErrorIs(err, ErrProjectTitleTaken)
	s.Equal(int64(1), s.env.count(&models.Project{}))
	s.Equal(int64(0), s.env.count(&models.Hiring{}))
	s.Empty(s.env.reload(s.bob).History)
	s.Empty(s.env.events.all())
}

func (s *ProjectServiceTestSuite) TestCreateProject_InvalidMembersChangeNothing() {
	s.env.staff("admin@example.com")

	_, err := s.env.projects.CreateProject(s.ctx, s.alice, CreateProjectInput{
		Title:  "Apollo",
		Status: models.ProjectStatusActive,
		Users:  []string{"bob@example.com", "ghost@example.com"},
	})
	s.ErrorIs(err, ErrUnknownUser)

	_, err = s.env.projects.CreateProject(s.ctx, s.alice, CreateProjectInput{
		Title:  "Apollo",
		Status: models.ProjectStatusActive,
		Users:  []string{"admin@example.com"},
	})
	s.ErrorIs(err, ErrStaffNotEligible)

	_, err = s.env.projects.CreateProject(s.ctx, s.alice, CreateProjectInput{
		Title:  "Apollo",
		Status: "paused",
	})
	s.ErrorIs(err, ErrInvalidStatus)

	s.Equal(int64(0), s.env.count(&models.Project{}))
	s.Equal(int64(0), s.env.count(&models.Hiring{}))
	s.Empty(s.env.events.all())
}

func (s *ProjectServiceTestSuite) TestUpdateProject_PatchesAndAddsMembers() {
	project := s.env.project(s.alice, "Apollo")
	created := project.DateCreated
	s.env.events.reset()

	later := time.Now().Add(time.Hour)
	s.env.projects.now = func() time.Time { return later }

	title := "Apollo 11"
	archived := models.ProjectStatusArchive
	updated, err := s.env.projects.UpdateProject(s.ctx, s.alice, project.ID, UpdateProjectInput{
		Title:  &title,
		Status: &archived,
		Users:  []string{"bob@example.com"},
	})
	s.Require().NoError(err)
	s.Equal("Apollo 11", updated.Title)
	s.Equal(models.ProjectStatusArchive, updated.Status)
	s.Equal("Apollo description", updated.Description)
	s.WithinDuration(later, updated.DateUpdated, time.Second)
	s.WithinDuration(created, updated.DateCreated, time.Second)

	s.Len(s.env.events.ofKind(notify.MemberJoined), 1)
	s.Equal(models.StringList{"Apollo 11"}, s.env.reload(s.bob).History)

	// Same title on itself is not a conflict
	_, err = s.env.projects.UpdateProject(s.ctx, s.alice, project.ID, UpdateProjectInput{Title: &title})
	s.Require().NoError(err)
}

func (s *ProjectServiceTestSuite) TestUpdateProject_Errors() {
	apollo := s.env.project(s.alice, "Apollo")
	s.env.project(s.alice, "Gemini")

	taken := "Gemini"
	_, err := s.env.projects.UpdateProject(s.ctx, s.alice, apollo.ID, UpdateProjectInput{Title: &taken})
	s.ErrorIs(err, ErrProjectTitleTaken)

	_, err = s.env.projects.UpdateProject(s.ctx, s.alice, 999, UpdateProjectInput{Title: &taken})
	s.ErrorIs(err, ErrProjectNotFound)

	desc := "hijack"
	_, err = s.env.projects.UpdateProject(s.ctx, s.bob, apollo.ID, UpdateProjectInput{Description: &desc})
	s.ErrorIs(err, ErrForbidden)

	fresh, err := s.env.projects.GetProject(apollo.ID)
	s.Require().NoError(err)
	s.Equal("Apollo", fresh.Title)
	s.Equal("Apollo description", fresh.Description)
}

func (s *ProjectServiceTestSuite) TestDeleteProject() {
	project := s.env.project(s.alice, "Apollo", "bob@example.com")
	task := s.env.task(s.alice, project.ID, "Launch", "bob@example.com")
	_, err := s.env.comments.AddComment(s.ctx, s.bob, task.ID, "ready")
	s.Require().NoError(err)

	carol := s.env.user("carol@example.com")
	s.ErrorIs(s.env.projects.DeleteProject(carol, project.ID), ErrForbidden)
	s.ErrorIs(s.env.projects.DeleteProject(s.alice, 999), ErrProjectNotFound)

	s.Require().NoError(s.env.projects.DeleteProject(s.alice, project.ID))
	s.Equal(int64(0), s.env.count(&models.Project{}))
	s.Equal(int64(0), s.env.count(&models.Task{}))
	s.Equal(int64(0), s.env.count(&models.Comment{}))
	s.Equal(int64(0), s.env.count(&models.Hiring{}))

	_, err = s.env.projects.GetProject(project.ID)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ProjectServiceTestSuite) TestListProjects_HidesPrivate() {
	s.env.project(s.alice, "Apollo")
	secret, err := s.env.projects.CreateProject(s.ctx, s.alice, CreateProjectInput{
		Title:   "Secret",
		Status:  models.ProjectStatusActive,
		Private: true,
	})
	s.Require().NoError(err)
	_, err = s.env.projects.CreateProject(s.ctx, s.bob, CreateProjectInput{
		Title:  "Gemini",
		Status: models.ProjectStatusArchive,
	})
	s.Require().NoError(err)

	projects, err := s.env.projects.ListProjects(repository.ProjectFilter{})
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	for _, p := range projects {
		s.NotEqual("Secret", p.Title)
	}

	// Private projects stay readable by id
	got, err := s.env.projects.GetProject(secret.ID)
	s.Require().NoError(err)
	s.True(got.Private)

	owner := s.bob.ID
	projects, err = s.env.projects.ListProjects(repository.ProjectFilter{OwnerID: &owner})
	s.Require().NoError(err)
	s.Require().Len(projects, 1)
	s.Equal("Gemini", projects[0].Title)

	bad := "paused"
	_, err = s.env.projects.ListProjects(repository.ProjectFilter{Status: &bad})
	s.ErrorIs(err, ErrInvalidStatus)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
