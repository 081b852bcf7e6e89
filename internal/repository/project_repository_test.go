package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/testutil"
	"github.com/yukikurage/task-tracker/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ProjectRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	projects ProjectRepository
	tasks    TaskRepository
	hirings  HiringRepository
	owner    *models.User
}

func (s *ProjectRepositoryTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.projects = NewProjectRepository(s.db)
	s.tasks = NewTaskRepository(s.db)
	s.hirings = NewHiringRepository(s.db)
	s.owner = testutil.CreateUser(s.T(), s.db, "owner@example.com", false)
}

func (s *ProjectRepositoryTestSuite) createProject(title string, private bool, status models.ProjectStatus) *models.Project {
	now := time.Now()
	project := &models.Project{
		Title:       title,
		Description: title + " description",
		Status:      status,
		Private:     private,
		OwnerID:     &s.owner.ID,
		DateCreated: now,
		DateUpdated: now,
	}
	s.Require().NoError(s.projects.Create(project))
	return project
}

func (s *ProjectRepositoryTestSuite) TestList_HidesPrivateProjects() {
	s.createProject("Apollo", false, models.ProjectStatusActive)
	s.createProject("Secret", true, models.ProjectStatusActive)
	s.createProject("Gemini", false, models.ProjectStatusArchive)

	projects, err := s.projects.List(ProjectFilter{})
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal("Apollo", projects[0].Title)
	s.Equal("Gemini", projects[1].Title)

	archived := string(models.ProjectStatusArchive)
	projects, err = s.projects.List(ProjectFilter{Status: &archived})
	s.Require().NoError(err)
	s.Require().Len(projects, 1)
	s.Equal("Gemini", projects[0].Title)
}

func (s *ProjectRepositoryTestSuite) TestList_SortsDescending() {
	s.createProject("Apollo", false, models.ProjectStatusActive)
	s.createProject("Gemini", false, models.ProjectStatusActive)

	projects, err := s.projects.List(ProjectFilter{Sort: &utils.SortOrder{Column: "title", Desc: true}})
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal("Gemini", projects[0].Title)
}

func (s *ProjectRepositoryTestSuite) TestTitleExists() {
	apollo := s.createProject("Apollo", false, models.ProjectStatusActive)

	exists, err := s.projects.TitleExists("Apollo", 0)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.projects.TitleExists("Apollo", apollo.ID)
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.projects.TitleExists("apollo", 0)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ProjectRepositoryTestSuite) TestDelete_Cascades() {
	apollo := s.createProject("Apollo", false, models.ProjectStatusActive)
	other := s.createProject("Gemini", false, models.ProjectStatusActive)

	_, err := s.hirings.AddMember(models.Hiring{UserID: s.owner.ID, ProjectID: apollo.ID, RoleInProject: "programmer"}, apollo.Title)
	s.Require().NoError(err)

	task := &models.Task{Title: "Launch", ProjectID: apollo.ID, Status: models.TaskStatusGrooming, Deadline: time.Now()}
	s.Require().NoError(s.tasks.Create(task))
	keep := &models.Task{Title: "Launch", ProjectID: other.ID, Status: models.TaskStatusGrooming, Deadline: time.Now()}
	s.Require().NoError(s.tasks.Create(keep))

	s.Require().NoError(s.db.Create(&models.Comment{TaskID: task.ID, Text: "go", DateCreated: time.Now()}).Error)
	s.Require().NoError(s.db.Create(&models.Comment{TaskID: keep.ID, Text: "stay", DateCreated: time.Now()}).Error)

	s.Require().NoError(s.projects.Delete(apollo.ID))

	_, err = s.projects.FindByID(apollo.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	var tasks, comments, hirings int64
	s.db.Model(&models.Task{}).Count(&tasks)
	s.db.Model(&models.Comment{}).Count(&comments)
	s.db.Model(&models.Hiring{}).Count(&hirings)
	s.Equal(int64(1), tasks)
	s.Equal(int64(1), comments)
	s.Equal(int64(0), hirings)

	// The user's history is append-only
	var owner models.User
	s.Require().NoError(s.db.First(&owner, s.owner.ID).Error)
	s.Equal(models.StringList{"Apollo"}, owner.History)
}

func (s *ProjectRepositoryTestSuite) TestCreateWithMembers() {
	member := testutil.CreateUser(s.T(), s.db, "bob@example.com", false)
	project := &models.Project{
		Title:       "Apollo",
		Description: "moon",
		Status:      models.ProjectStatusActive,
		DateCreated: time.Now(),
		DateUpdated: time.Now(),
	}

	results, err := s.projects.CreateWithMembers(project, []models.Hiring{
		{UserID: member.ID, RoleInProject: "programmer", DateJoined: time.Now()},
	})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.True(results[0].Created)
	s.True(results[0].Joined)
	s.Equal(project.ID, results[0].Hiring.ProjectID)

	ok, err := s.hirings.IsMember(project.ID, member.ID)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ProjectRepositoryTestSuite) TestCreateWithMembers_RollsBackOnFailedHiring() {
	member := testutil.CreateUser(s.T(), s.db, "bob@example.com", false)
	project := &models.Project{
		Title:       "Apollo",
		Description: "moon",
		Status:      models.ProjectStatusActive,
		DateCreated: time.Now(),
		DateUpdated: time.Now(),
	}

	_, err := s.projects.CreateWithMembers(project, []models.Hiring{
		{UserID: member.ID, RoleInProject: "programmer", DateJoined: time.Now()},
		{UserID: 999, RoleInProject: "programmer", DateJoined: time.Now()},
	})
	s.Require().Error(err)
	s.Zero(project.ID)

	var projects, hirings int64
	s.Require().NoError(s.db.Model(&models.Project{}).Count(&projects).Error)
	s.Require().NoError(s.db.Model(&models.Hiring{}).Count(&hirings).Error)
	s.Zero(projects)
	s.Zero(hirings)

	var user models.User
	s.Require().NoError(s.db.First(&user, member.ID).Error)
	s.Empty(user.History)
}

func (s *ProjectRepositoryTestSuite) TestDelete_MissingProject() {
	s.ErrorIs(s.projects.Delete(999), gorm.ErrRecordNotFound)
}

func TestProjectRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectRepositoryTestSuite))
}

func TestProjectRepository_DeleteRollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `comments`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `tasks`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err = NewProjectRepository(db).Delete(7)
	require.Error(t, err)
	require.Contains(t, err.Error(), "lock wait timeout")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_CreateWithMembersRollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `projects`").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO `hirings`").WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	project := &models.Project{Title: "Apollo", Status: models.ProjectStatusActive}
	_, err = NewProjectRepository(db).CreateWithMembers(project, []models.Hiring{{UserID: 3}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "deadlock found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmailPropagatesErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnError(errors.New("connection reset"))

	_, err = NewUserRepository(db).FindByEmail("alice@example.com")
	require.Error(t, err)
	require.False(t, errors.Is(err, gorm.ErrRecordNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
