package handlers

import (
	"errors"
	"net/http"

	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/blogworks/postapi/internal/util"
	"github.com/gin-gonic/gin"
)

// CommentRequest is the body of comment create and update calls
type CommentRequest struct {
	ID      uint   `json:"id"`
	Author  string `json:"author" binding:"max=100"`
	Content string `json:"content" binding:"required,min=1,max=2000"`
	PostID  uint   `json:"postId"`
}

// GetComments returns one page of a post's comments
// GET /api/Comments/posts/:postId
func (h *Handlers) GetComments(c *gin.Context) {
	postID, err := util.IDParam(c, "postId")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var page posts.Page
	if page.Number, err = util.PositiveIntQuery(c, "pageNumber", posts.DefaultPageNumber); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	if page.Size, err = util.PositiveIntQuery(c, "pageSize", posts.DefaultPageSize); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), postID, page)
	if util.HandleServiceError(c, err, "Post") {
		return
	}

	c.JSON(http.StatusOK, comments)
}

// AddComment attaches a comment to the post in the URL
// POST /api/Comments/posts/:postId
func (h *Handlers) AddComment(c *gin.Context) {
	postID, err := util.IDParam(c, "postId")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, err)
		return
	}

	id, err := h.comments.AddComment(c.Request.Context(), postID, &models.Comment{
		Author:  req.Author,
		Content: req.Content,
	})
	recordOperation("add_comment", true, err)
	if util.HandleServiceError(c, err, "Post") {
		return
	}

	util.RespondCreated(c, id)
}

// EditComment updates a comment's content and, when postId is given, its post
// PUT /api/Comments/:commentId
func (h *Handlers) EditComment(c *gin.Context) {
	id, err := util.IDParam(c, "commentId")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, err)
		return
	}
	if req.ID != id {
		util.RespondValidationError(c, "id", "id in body does not match the URL")
		return
	}

	ok, err := h.comments.EditComment(c.Request.Context(), id, posts.CommentPatch{
		Content: req.Content,
		PostID:  req.PostID,
	})
	recordOperation("edit_comment", ok, err)
	if errors.Is(err, posts.ErrPostNotFound) {
		util.RespondNotFound(c, "Post")
		return
	}
	if util.HandleServiceError(c, err, "Comment") {
		return
	}
	if !ok {
		util.RespondNotFound(c, "Comment")
		return
	}

	util.RespondSuccess(c, true)
}

// DeleteComment removes a comment
// DELETE /api/Comments/:commentId
func (h *Handlers) DeleteComment(c *gin.Context) {
	id, err := util.IDParam(c, "commentId")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	ok, err := h.comments.DeleteComment(c.Request.Context(), id)
	recordOperation("delete_comment", ok, err)
	if util.HandleServiceError(c, err, "Comment") {
		return
	}

	util.RespondSuccess(c, ok)
}
