package util

import (
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// GetUserIDFromContext extracts the authenticated user id from the Gin context.
// If the user is not authenticated it responds with 401 and returns false.
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		RespondUnauthorized(c)
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok {
		RespondInternalError(c, "invalid user ID in context")
		return 0, false
	}
	return id, true
}

// GetUsernameFromContext returns the authenticated username, or "" when absent
func GetUsernameFromContext(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
