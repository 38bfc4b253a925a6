package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/blogworks/postapi/internal/auth"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login exchanges a username and password for a bearer token
// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		util.RespondUnauthorized(c, "invalid username or password")
		return
	}
	if err != nil {
		logger.Log.Error("Login failed", zap.String("username", req.Username), zap.Error(err))
		util.RespondInternalError(c, "login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       userID,
		"username": util.GetUsernameFromContext(c),
	})
}

// AuthMiddleware validates "Authorization: Bearer <token>" headers
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "no token provided")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			util.RespondUnauthorized(c, "authorization header must be a bearer token")
			return
		}

		user, err := h.auth.ValidateToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			logger.Log.Debug("Rejected token", zap.Error(err))
			util.RespondUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(util.UserIDKey, user.ID)
		c.Set(util.UsernameKey, user.Username)
		c.Next()
	}
}
