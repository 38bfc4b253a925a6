package handlers

import (
	"github.com/gin-gonic/gin"
)

// RouteLimits are the per-route rate limiters; nil entries are skipped
type RouteLimits struct {
	Login  gin.HandlerFunc
	Upload gin.HandlerFunc
}

func chain(limiter gin.HandlerFunc, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return handlers
	}
	return append([]gin.HandlerFunc{limiter}, handlers...)
}

// RegisterRoutes mounts the API under api
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, limits RouteLimits) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", chain(limits.Login, h.Login)...)
		authGroup.GET("/me", h.AuthMiddleware(), h.Me)
	}

	postsGroup := api.Group("/Posts")
	{
		postsGroup.GET("", h.GetAllPosts)
		postsGroup.GET("/GetAllPosts", h.GetAllPosts)
		postsGroup.GET("/:id", h.GetPost)

		postsGroup.POST("", h.AuthMiddleware(), h.AddPost)
		postsGroup.PUT("/:id", h.AuthMiddleware(), h.EditPost)
		postsGroup.DELETE("/:id", h.AuthMiddleware(), h.DeletePost)
		postsGroup.POST("/:id/image", chain(limits.Upload, h.AuthMiddleware(), h.UploadPostImage)...)
	}

	commentsGroup := api.Group("/Comments")
	{
		commentsGroup.GET("/posts/:postId", h.GetComments)
		commentsGroup.POST("/posts/:postId", h.AuthMiddleware(), h.AddComment)
		commentsGroup.PUT("/:commentId", h.AuthMiddleware(), h.EditComment)
		commentsGroup.DELETE("/:commentId", h.AuthMiddleware(), h.DeleteComment)
	}
}
