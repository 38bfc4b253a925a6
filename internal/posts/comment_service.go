package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentPatch carries the editable fields of a comment. A zero PostID keeps
// the current post.
type CommentPatch struct {
	Content string
	PostID  uint
}

// CommentService reads and mutates comments
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCommentService creates a comment service on top of db
func NewCommentService(db *gorm.DB, opts ...Option) *CommentService {
	o := buildOptions(opts)
	return &CommentService{db: db, now: o.now}
}

// ListComments returns one page of a post's comments, oldest first
func (s *CommentService) ListComments(ctx context.Context, postID uint, page Page) ([]models.Comment, error) {
	exists, err := postExists(ctx, s.db, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}
	return loadComments(ctx, s.db, postID, page.Normalize())
}

// GetComment returns a single comment, or false when it does not exist
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, bool, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	return &comment, true, nil
}

// AddComment attaches a new comment to post postID and returns its id.
// ErrPostNotFound is returned when the post does not exist.
func (s *CommentService) AddComment(ctx context.Context, postID uint, c *models.Comment) (uint, error) {
	if c == nil {
		return 0, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Content) == "" {
		return 0, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	exists, err := postExists(ctx, s.db, postID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrPostNotFound
	}

	comment := models.Comment{
		Author:   c.Author,
		Content:  c.Content,
		PostID:   postID,
		CreateAt: s.now(),
	}

	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		logger.Log.Error("Failed to create comment", logger.WithPostID(postID), zap.Error(err))
		return 0, fmt.Errorf("failed to create comment: %w", err)
	}

	c.ID = comment.ID
	c.PostID = comment.PostID
	c.CreateAt = comment.CreateAt
	return comment.ID, nil
}

// EditComment updates the content and post of comment id. It returns false
// without writing when the comment does not exist, and ErrPostNotFound when
// moving it to a post that does not exist.
func (s *CommentService) EditComment(ctx context.Context, id uint, patch CommentPatch) (bool, error) {
	if strings.TrimSpace(patch.Content) == "" {
		return false, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	current, found, err := s.GetComment(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	postID := current.PostID
	if patch.PostID != 0 && patch.PostID != current.PostID {
		exists, err := postExists(ctx, s.db, patch.PostID)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, ErrPostNotFound
		}
		postID = patch.PostID
	}

	err = s.db.WithContext(ctx).
		Model(&models.Comment{ID: id}).
		Select("content", "post_id").
		Updates(&models.Comment{Content: patch.Content, PostID: postID}).Error
	if err != nil {
		logger.Log.Error("Failed to update comment", logger.WithCommentID(id), zap.Error(err))
		return false, fmt.Errorf("failed to update comment %d: %w", id, err)
	}

	return true, nil
}

// DeleteComment removes comment id. Deleting a missing comment returns false and no error.
func (s *CommentService) DeleteComment(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		logger.Log.Error("Failed to delete comment", logger.WithCommentID(id), zap.Error(result.Error))
		return false, fmt.Errorf("failed to delete comment %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
