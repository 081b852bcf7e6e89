package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/notify"
)

type CommentServiceTestSuite struct {
	suite.Suite
	env   *serviceEnv
	ctx   context.Context
	alice *models.User
	bob   *models.User
	task  *models.Task
}

func (s *CommentServiceTestSuite) SetupTest() {
	s.env = newServiceEnv(s.T())
	s.ctx = context.Background()
	s.alice = s.env.user("alice@example.com")
	s.bob = s.env.user("bob@example.com")
	project := s.env.project(s.alice, "Apollo", "bob@example.com")
	s.task = s.env.task(s.alice, project.ID, "Launch", "bob@example.com")
	s.env.events.reset()
}

func (s *CommentServiceTestSuite) TestAddComment_NotifiesExecutor() {
	comment, err := s.env.comments.AddComment(s.ctx, s.alice, s.task.ID, "  T-minus ten  ")
	s.Require().NoError(err)
	s.Equal("T-minus ten", comment.Text)
	s.Equal(s.alice.ID, *comment.AuthorID)

	added := s.env.events.ofKind(notify.CommentAdded)
	s.Require().Len(added, 1)
	s.Equal(s.bob.ID, added[0].RecipientID)
	s.Equal("T-minus ten", added[0].Text)
}

func (s *CommentServiceTestSuite) TestAddComment_ExecutorIsNotifiedOfOwnComment() {
	_, err := s.env.comments.AddComment(s.ctx, s.bob, s.task.ID, "on it")
	s.Require().NoError(err)

	added := s.env.events.ofKind(notify.CommentAdded)
	s.Require().Len(added, 1)
	s.Equal(s.bob.ID, added[0].RecipientID)
	s.Equal(s.bob.ID, added[0].ActorID)
}

func (s *CommentServiceTestSuite) TestAddComment_AnyUserMayComment() {
	outsider := s.env.user("carol@example.com")
	comment, err := s.env.comments.AddComment(s.ctx, outsider, s.task.ID, "hello")
	s.Require().NoError(err)
	s.Equal(outsider.ID, *comment.AuthorID)
	s.Len(s.env.events.ofKind(notify.CommentAdded), 1)
	s.Equal(int64(1), s.env.count(&models.Comment{}))
}

func (s *CommentServiceTestSuite) TestAddComment_Rejections() {
	_, err := s.env.comments.AddComment(s.ctx, s.alice, 999, "hello")
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.env.comments.AddComment(s.ctx, s.alice, s.task.ID, "   ")
	s.ErrorIs(err, ErrTextEmpty)

	s.Equal(int64(0), s.env.count(&models.Comment{}))
}

func (s *CommentServiceTestSuite) TestListComments_OldestFirst() {
	for _, text := range []string{"first", "second", "third"} {
		_, err := s.env.comments.AddComment(s.ctx, s.alice, s.task.ID, text)
		s.Require().NoError(err)
	}

	comments, err := s.env.comments.ListComments(s.task.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 3)
	s.Equal("first", comments[0].Text)
	s.Equal("third", comments[2].Text)

	_, err = s.env.comments.ListComments(999)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *CommentServiceTestSuite) TestUpdateAndDeleteComment() {
	comment, err := s.env.comments.AddComment(s.ctx, s.alice, s.task.ID, "draft")
	s.Require().NoError(err)

	updated, err := s.env.comments.UpdateComment(s.task.ID, comment.ID, "final")
	s.Require().NoError(err)
	s.Equal("final", updated.Text)

	_, err = s.env.comments.UpdateComment(s.task.ID, comment.ID, "")
	s.ErrorIs(err, ErrTextEmpty)

	other := s.env.task(s.alice, s.task.ProjectID, "Land", "bob@example.com")
	_, err = s.env.comments.UpdateComment(other.ID, comment.ID, "moved")
	s.ErrorIs(err, ErrCommentNotFound)
	s.ErrorIs(s.env.comments.DeleteComment(other.ID, comment.ID), ErrCommentNotFound)

	_, err = s.env.comments.UpdateComment(999, comment.ID, "gone")
	s.ErrorIs(err, ErrTaskNotFound)

	s.Require().NoError(s.env.comments.DeleteComment(s.task.ID, comment.ID))
	s.ErrorIs(s.env.comments.DeleteComment(s.task.ID, comment.ID), ErrCommentNotFound)
}

func TestCommentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommentServiceTestSuite))
}
