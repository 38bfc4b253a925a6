package handlers

import (
	"github.com/blogworks/postapi/internal/auth"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/blogworks/postapi/internal/storage"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	posts    *posts.PostService
	comments *posts.CommentService
	auth     auth.AuthServiceInterface
	images   storage.ImageUploader
}

// NewHandlers creates a new handlers instance
func NewHandlers(postService *posts.PostService, commentService *posts.CommentService, authService auth.AuthServiceInterface) *Handlers {
	RegisterValidators()
	return &Handlers{
		posts:    postService,
		comments: commentService,
		auth:     authService,
	}
}

// SetImageUploader enables post image uploads
func (h *Handlers) SetImageUploader(uploader storage.ImageUploader) {
	h.images = uploader
}
