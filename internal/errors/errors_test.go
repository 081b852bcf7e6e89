package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title      string `binding:"required"`
	RoleInTeam string `binding:"required,max=3"`
}

func TestBindingFailed_ListsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(sampleRequest{RoleInTeam: "toolong"})
	require.Error(t, err)

	BindingFailed(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeValidationFailed, body.Code)

	details, ok := body.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "required", details["title"])
	assert.Equal(t, "max=3", details["role_in_team"])
}

func TestBindingFailed_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var target map[string]any
	err := json.Unmarshal([]byte("{"), &target)

	BindingFailed(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeInvalidInput)
}

func TestConflict_IsClientError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Conflict(c, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeConflict)
}
