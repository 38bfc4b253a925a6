package util

import (
	"errors"
	"strings"

	"github.com/blogworks/postapi/internal/posts"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HandleServiceError maps a service error to an HTTP response.
// Returns true if the error was handled (and a response was sent), false otherwise.
func HandleServiceError(c *gin.Context, err error, resourceName string) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, posts.ErrPostNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		RespondNotFound(c, resourceName)
	case errors.Is(err, posts.ErrInvalidInput):
		RespondBadRequest(c, strings.TrimPrefix(err.Error(), posts.ErrInvalidInput.Error()+": "))
	default:
		RespondInternalError(c, "failed to process "+strings.ToLower(resourceName))
	}
	return true
}
