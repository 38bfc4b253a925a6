package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blogworks/postapi/internal/posts"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorderContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/Posts/1", nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondNotFound(t *testing.T) {
	c, w := recorderContext()
	RespondNotFound(c, "Post")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Post not found", body.Message)
	assert.True(t, c.IsAborted())
}

func TestRespondValidationError(t *testing.T) {
	c, w := recorderContext()
	RespondValidationError(c, "title", "title is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "title", body.Field)
}

func TestRespondBindErrorCarriesRule(t *testing.T) {
	type form struct {
		Title string `validate:"required,max=5"`
	}
	v := validator.New()

	c, w := recorderContext()
	RespondBindError(c, v.Struct(form{Title: "much too long"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "Title", body.Field)
	assert.Equal(t, "max=5", body.Details)

	c, w = recorderContext()
	RespondBindError(c, v.Struct(form{}))
	assert.Equal(t, "required", decodeError(t, w).Details)

	c, w = recorderContext()
	RespondBindError(c, fmt.Errorf("unexpected EOF"))
	body = decodeError(t, w)
	assert.Equal(t, "BAD_REQUEST", body.Code)
	assert.Empty(t, body.Details)
}

func TestRespondCreated(t *testing.T) {
	c, w := recorderContext()
	RespondCreated(c, 12)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"id":12}`, w.Body.String())
}

func TestRespondSuccessFalse(t *testing.T) {
	c, w := recorderContext()
	RespondSuccess(c, false)

	assert.JSONEq(t, `{"success":false}`, w.Body.String())
}

func TestHandleServiceError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", posts.ErrPostNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped invalid input", fmt.Errorf("%w: title is required", posts.ErrInvalidInput), http.StatusBadRequest, "BAD_REQUEST"},
		{"other failure", fmt.Errorf("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := recorderContext()
			assert.True(t, HandleServiceError(c, tc.err, "Post"))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}

	c, _ := recorderContext()
	assert.False(t, HandleServiceError(c, nil, "Post"))
}

func TestHandleServiceErrorStripsSentinelPrefix(t *testing.T) {
	c, w := recorderContext()
	HandleServiceError(c, fmt.Errorf("%w: title is required", posts.ErrInvalidInput), "Post")
	assert.Equal(t, "title is required", decodeError(t, w).Message)
}

func TestGetUserIDFromContext(t *testing.T) {
	c, w := recorderContext()
	_, ok := GetUserIDFromContext(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = recorderContext()
	c.Set(UserIDKey, uint(3))
	id, ok := GetUserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, uint(3), id)
}
