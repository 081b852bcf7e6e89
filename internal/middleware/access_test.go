package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

type stubProjects struct{}

func (stubProjects) GetProject(id uint64) (*models.Project, error) {
	switch id {
	case 1:
		return &models.Project{ID: 1, Title: "Apollo"}, nil
	case 2:
		return nil, errors.New("database is locked")
	default:
		return nil, services.ErrProjectNotFound
	}
}

type stubTasks struct{}

func (stubTasks) GetTask(id uint64) (*models.Task, error) {
	if id == 1 {
		return &models.Task{ID: 1, Title: "Launch"}, nil
	}
	return nil, services.ErrTaskNotFound
}

func TestLoadProject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/projects/:id", LoadProject(stubProjects{}), func(c *gin.Context) {
		project, ok := CurrentProject(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, project.Title)
	})

	cases := map[string]int{
		"/projects/1":   http.StatusOK,
		"/projects/2":   http.StatusInternalServerError,
		"/projects/3":   http.StatusNotFound,
		"/projects/abc": http.StatusBadRequest,
		"/projects/-1":  http.StatusBadRequest,
	}
	for path, code := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, w.Code, path)
	}
}

func TestLoadTask(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/tasks/:id", LoadTask(stubTasks{}), func(c *gin.Context) {
		task, ok := CurrentTask(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, task.Title)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Launch", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/7", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentProject_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentProject(c)
	assert.False(t, ok)
	_, ok = CurrentUser(c)
	assert.False(t, ok)
}
