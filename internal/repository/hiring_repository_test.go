package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/testutil"
	"gorm.io/gorm"
)

type HiringRepositoryTestSuite struct {
	suite.Suite
	db      *gorm.DB
	repo    HiringRepository
	user    *models.User
	project *models.Project
}

func (s *HiringRepositoryTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.repo = NewHiringRepository(s.db)
	s.user = testutil.CreateUser(s.T(), s.db, "alice@example.com", false)

	s.project = &models.Project{
		Title:       "Apollo",
		Description: "moon",
		Status:      models.ProjectStatusActive,
		DateCreated: time.Now(),
		DateUpdated: time.Now(),
	}
	s.Require().NoError(NewProjectRepository(s.db).Create(s.project))
}

func (s *HiringRepositoryTestSuite) hiring() models.Hiring {
	return models.Hiring{
		UserID:        s.user.ID,
		ProjectID:     s.project.ID,
		RoleInProject: "programmer",
		DateJoined:    time.Now(),
	}
}

func (s *HiringRepositoryTestSuite) TestAddMember_IsIdempotent() {
	first, err := s.repo.AddMember(s.hiring(), s.project.Title)
	s.Require().NoError(err)
	s.True(first.Created)
	s.True(first.Joined)

	second, err := s.repo.AddMember(s.hiring(), s.project.Title)
	s.Require().NoError(err)
	s.False(second.Created)
	s.False(second.Joined)
	s.Equal(first.Hiring.ID, second.Hiring.ID)

	var count int64
	s.Require().NoError(s.db.Model(&models.Hiring{}).Count(&count).Error)
	s.Equal(int64(1), count)

	var user models.User
	s.Require().NoError(s.db.First(&user, s.user.ID).Error)
	s.Equal(models.StringList{"Apollo"}, user.History)
}

func (s *HiringRepositoryTestSuite) TestAddMember_ExistingHiringAfterRename() {
	_, err := s.repo.AddMember(s.hiring(), s.project.Title)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(s.project).Update("title", "Artemis").Error)

	again, err := s.repo.AddMember(s.hiring(), "Artemis")
	s.Require().NoError(err)
	s.False(again.Created)
	s.False(again.Joined)

	var user models.User
	s.Require().NoError(s.db.First(&user, s.user.ID).Error)
	s.Equal(models.StringList{"Apollo"}, user.History)
}

func (s *HiringRepositoryTestSuite) TestAddMember_ConcurrentCallsCreateOneRow() {
	var wg sync.WaitGroup
	joined := make(chan bool, 8)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.repo.AddMember(s.hiring(), s.project.Title)
			if err == nil {
				joined <- result.Joined
			}
		}()
	}
	wg.Wait()
	close(joined)

	joins := 0
	for j := range joined {
		if j {
			joins++
		}
	}
	s.Equal(1, joins)

	var count int64
	s.Require().NoError(s.db.Model(&models.Hiring{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *HiringRepositoryTestSuite) TestHistoryKeepsExistingEntries() {
	s.Require().NoError(s.db.Model(s.user).Update("history", models.StringList{"Gemini"}).Error)

	_, err := s.repo.AddMember(s.hiring(), s.project.Title)
	s.Require().NoError(err)

	var user models.User
	s.Require().NoError(s.db.First(&user, s.user.ID).Error)
	s.Equal(models.StringList{"Gemini", "Apollo"}, user.History)
}

func (s *HiringRepositoryTestSuite) TestMembershipQueries() {
	ok, err := s.repo.IsMember(s.project.ID, s.user.ID)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.repo.AddMember(s.hiring(), s.project.Title)
	s.Require().NoError(err)

	ok, err = s.repo.IsMember(s.project.ID, s.user.ID)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.repo.UpdateRole(s.project.ID, s.user.ID, "tester"))
	member, err := s.repo.FindMember(s.project.ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal("tester", member.RoleInProject)

	members, err := s.repo.ListMembers(s.project.ID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("alice@example.com", members[0].User.Email)

	byUser, err := s.repo.ListByUser(s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(byUser, 1)
	s.Equal("Apollo", byUser[0].Project.Title)

	s.Require().NoError(s.repo.DeleteByUser(s.user.ID))
	ok, err = s.repo.IsMember(s.project.ID, s.user.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func TestHiringRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(HiringRepositoryTestSuite))
}
