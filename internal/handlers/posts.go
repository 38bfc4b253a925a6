package handlers

import (
	"errors"
	"net/http"

	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/blogworks/postapi/internal/util"
	"github.com/gin-gonic/gin"
)

// PostRequest is the body of post create and update calls
type PostRequest struct {
	ID              uint   `json:"id"`
	Title           string `json:"title" binding:"required,min=3,max=200"`
	Description     string `json:"description" binding:"max=500"`
	Content         string `json:"content" binding:"required,min=10,max=20000"`
	Author          string `json:"author" binding:"max=100"`
	ImageURL        string `json:"imageUrl" binding:"omitempty,max=2048,url"`
	MetaTitle       string `json:"metaTitle" binding:"max=100"`
	MetaDescription string `json:"metaDescription" binding:"max=300"`
	Slug            string `json:"slug" binding:"omitempty,max=200,slug"`
}

func (r PostRequest) model() *models.Post {
	return &models.Post{
		Title:           r.Title,
		Description:     r.Description,
		Content:         r.Content,
		Author:          r.Author,
		ImageURL:        r.ImageURL,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Slug:            r.Slug,
	}
}

func (r PostRequest) patch() posts.PostPatch {
	return posts.PostPatch{
		Title:           r.Title,
		Content:         r.Content,
		Author:          r.Author,
		Description:     r.Description,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		ImageURL:        r.ImageURL,
		Slug:            r.Slug,
	}
}

// listOptions reads the paging query parameters. Every supplied value must
// be an integer of at least 1.
func listOptions(c *gin.Context) (posts.ListOptions, error) {
	var opts posts.ListOptions
	var err error

	if opts.PageNumber, err = util.PositiveIntQuery(c, "pageNumber", posts.DefaultPageNumber); err != nil {
		return opts, err
	}
	if opts.PageSize, err = util.PositiveIntQuery(c, "pageSize", posts.DefaultPageSize); err != nil {
		return opts, err
	}
	return commentOptions(c, opts)
}

// commentOptions reads the comment paging parameters into opts
func commentOptions(c *gin.Context, opts posts.ListOptions) (posts.ListOptions, error) {
	var err error
	if opts.CommentPageNumber, err = util.PositiveIntQuery(c, "commentPageNumber", posts.DefaultPageNumber); err != nil {
		return opts, err
	}
	if opts.CommentsPerPage, err = util.PositiveIntQuery(c, "commentsPerPage", posts.DefaultPageSize); err != nil {
		return opts, err
	}
	if opts.IncludeComments, err = util.BoolQuery(c, "includeComments", true); err != nil {
		return opts, err
	}
	return opts, nil
}

// GetAllPosts returns one page of posts
// GET /api/Posts/GetAllPosts and GET /api/Posts
func (h *Handlers) GetAllPosts(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.posts.ListPosts(c.Request.Context(), opts)
	if util.HandleServiceError(c, err, "Posts") {
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPost returns a single post
// GET /api/Posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	id, err := util.IDParam(c, "id")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	opts, err := commentOptions(c, posts.ListOptions{})
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id, opts.CommentPage(), opts.IncludeComments)
	if util.HandleServiceError(c, err, "Post") {
		return
	}

	c.JSON(http.StatusOK, post)
}

// AddPost creates a post
// POST /api/Posts
func (h *Handlers) AddPost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, err)
		return
	}

	id, err := h.posts.AddPost(c.Request.Context(), req.model())
	recordOperation("add_post", true, err)
	if util.HandleServiceError(c, err, "Post") {
		return
	}

	util.RespondCreated(c, id)
}

// EditPost replaces the editable fields of a post
// PUT /api/Posts/:id
func (h *Handlers) EditPost(c *gin.Context) {
	id, err := util.IDParam(c, "id")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, err)
		return
	}
	if req.ID != id {
		util.RespondValidationError(c, "id", "id in body does not match the URL")
		return
	}

	ok, err := h.posts.EditPost(c.Request.Context(), id, req.patch())
	recordOperation("edit_post", ok, err)
	if util.HandleServiceError(c, err, "Post") {
		return
	}
	if !ok {
		util.RespondNotFound(c, "Post")
		return
	}

	util.RespondSuccess(c, true)
}

// DeletePost removes a post and, through the cascade, its comments
// DELETE /api/Posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	id, err := util.IDParam(c, "id")
	if err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	ok, err := h.posts.DeletePost(c.Request.Context(), id)
	recordOperation("delete_post", ok, err)
	if util.HandleServiceError(c, err, "Post") {
		return
	}

	util.RespondSuccess(c, ok)
}

// recordOperation counts a mutation by outcome
func recordOperation(operation string, found bool, err error) {
	result := "success"
	switch {
	case errors.Is(err, posts.ErrInvalidInput):
		result = "invalid"
	case errors.Is(err, posts.ErrPostNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	case !found:
		result = "not_found"
	}
	metrics.Get().PostOperationsTotal.WithLabelValues(operation, result).Inc()
}
