package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/notify"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/testutil"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Emit(_ context.Context, events ...notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) all() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

func (r *recorder) ofKind(kind notify.EventKind) []notify.Event {
	var out []notify.Event
	for _, ev := range r.all() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

type serviceEnv struct {
	t      *testing.T
	db     *gorm.DB
	events *recorder

	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	hiringRepo  repository.HiringRepository
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository

	auth       *AuthService
	users      *UserService
	membership *MembershipService
	projects   *ProjectService
	tasks      *TaskService
	comments   *CommentService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	db := testutil.NewDB(t)
	env := &serviceEnv{
		t:           t,
		db:          db,
		events:      &recorder{},
		userRepo:    repository.NewUserRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		hiringRepo:  repository.NewHiringRepository(db),
		taskRepo:    repository.NewTaskRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}

	env.auth = NewAuthService(env.userRepo)
	env.membership = NewMembershipService(env.projectRepo, env.hiringRepo, env.userRepo, env.events)
	env.users = NewUserService(env.userRepo, env.hiringRepo, env.taskRepo, env.membership, nil)
	env.projects = NewProjectService(env.projectRepo, env.userRepo, env.hiringRepo, env.membership, env.events)
	env.tasks = NewTaskService(env.taskRepo, env.projectRepo, env.userRepo, env.hiringRepo, env.events, nil)
	env.comments = NewCommentService(env.commentRepo, env.taskRepo, env.projectRepo, env.userRepo, env.events)
	return env
}

func (e *serviceEnv) user(email string) *models.User {
	return testutil.CreateUser(e.t, e.db, email, false)
}

func (e *serviceEnv) staff(email string) *models.User {
	return testutil.CreateUser(e.t, e.db, email, true)
}

func (e *serviceEnv) project(owner *models.User, title string, members ...string) *models.Project {
	e.t.Helper()
	project, err := e.projects.CreateProject(context.Background(), owner, CreateProjectInput{
		Title:       title,
		Description: title + " description",
		Status:      models.ProjectStatusActive,
		Users:       members,
	})
	require.NoError(e.t, err)
	return project
}

func (e *serviceEnv) task(actor *models.User, projectID uint64, title, executor string) *models.Task {
	e.t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), actor, CreateTaskInput{
		ProjectID: projectID,
		Title:     title,
		Executor:  executor,
		Deadline:  time.Now().Add(48 * time.Hour),
	})
	require.NoError(e.t, err)
	return task
}

func (e *serviceEnv) count(model interface{}) int64 {
	var n int64
	require.NoError(e.t, e.db.Model(model).Count(&n).Error)
	return n
}

func (e *serviceEnv) reload(user *models.User) *models.User {
	var fresh models.User
	require.NoError(e.t, e.db.First(&fresh, user.ID).Error)
	return &fresh
}
