package handlers

import (
	"errors"
	"net/http"

	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/blogworks/postapi/internal/storage"
	"github.com/blogworks/postapi/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadPostImage stores the multipart "image" file and points the post at it.
// The image it replaces is removed from storage.
// POST /api/Posts/:id/image
func (h *Handlers) UploadPostImage(c *gin.Context) {
	if h.images == nil {
		util.RespondServiceUnavailable(c, "image storage")
		return
	}

	id, err := util.IDParam(c, "id")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id, posts.Page{}, false)
	if util.HandleServiceError(c, err, "Post") {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		util.RespondValidationError(c, "image", "image file is required")
		return
	}
	defer file.Close()

	result, err := h.images.UploadPostImage(c.Request.Context(), file, header, id)
	if err != nil {
		metrics.Get().ImageUploadsTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, storage.ErrUnsupportedImage) || errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrEmptyImage) {
			util.RespondValidationError(c, "image", err.Error())
			return
		}
		logger.Log.Error("Failed to upload post image", logger.WithPostID(id), zap.Error(err))
		util.RespondInternalError(c, "failed to upload image")
		return
	}

	ok, err := h.posts.SetImageURL(c.Request.Context(), id, result.URL)
	if util.HandleServiceError(c, err, "Post") {
		return
	}
	if !ok {
		util.RespondNotFound(c, "Post")
		return
	}

	if post.ImageURL != "" && post.ImageURL != result.URL {
		if _, err := h.images.DeleteImage(c.Request.Context(), post.ImageURL); err != nil {
			logger.Log.Warn("Failed to delete replaced post image",
				logger.WithPostID(id),
				zap.String("image_url", post.ImageURL),
				zap.Error(err))
		}
	}

	metrics.Get().ImageUploadsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": result.URL,
	})
}
