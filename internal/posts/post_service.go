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
	"gorm.io/gorm/clause"
)

// Columns a post edit is allowed to touch
var postEditColumns = []string{
	"title",
	"content",
	"author",
	"description",
	"meta_title",
	"meta_description",
	"image_url",
	"slug",
}

// PostPatch carries the editable fields of a post. Every field is written,
// including empty ones.
type PostPatch struct {
	Title           string
	Content         string
	Author          string
	Description     string
	MetaTitle       string
	MetaDescription string
	ImageURL        string
	Slug            string
}

// Option configures a service
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the timestamp source used when creating records
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PostService reads and mutates posts
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostService creates a post service on top of db
func NewPostService(db *gorm.DB, opts ...Option) *PostService {
	o := buildOptions(opts)
	return &PostService{db: db, now: o.now}
}

// ListPosts returns one page of posts ordered by id, each carrying its own
// page of comments when requested and an empty list otherwise.
func (s *PostService) ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, error) {
	page := opts.PostPage()

	posts := make([]models.Post, 0, page.Size)
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	for i := range posts {
		posts[i].Comments = []models.Comment{}
		if !opts.IncludeComments {
			continue
		}
		comments, err := loadComments(ctx, s.db, posts[i].ID, opts.CommentPage())
		if err != nil {
			return nil, err
		}
		posts[i].Comments = comments
	}

	return posts, nil
}

// GetPost returns a single post. ErrPostNotFound is returned when it does not exist.
func (s *PostService) GetPost(ctx context.Context, id uint, commentPage Page, includeComments bool) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	post.Comments = []models.Comment{}
	if includeComments {
		comments, err := loadComments(ctx, s.db, post.ID, commentPage.Normalize())
		if err != nil {
			return nil, err
		}
		post.Comments = comments
	}

	return &post, nil
}

// AddPost stores a new post and returns its id. The id, creation time and
// comments of the argument are ignored; on success p.ID and p.CreateAt hold
// the stored values.
func (s *PostService) AddPost(ctx context.Context, p *models.Post) (uint, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: post is required", ErrInvalidInput)
	}
	if err := validatePostFields(p.Title, p.Content, p.Slug); err != nil {
		return 0, err
	}
	if err := s.checkSlugFree(ctx, p.Slug, 0); err != nil {
		return 0, err
	}

	post := *p
	post.ID = 0
	post.CreateAt = s.now()
	post.Comments = nil

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		logger.Log.Error("Failed to create post", zap.String("title", post.Title), zap.Error(err))
		return 0, fmt.Errorf("failed to create post: %w", err)
	}

	p.ID = post.ID
	p.CreateAt = post.CreateAt
	return post.ID, nil
}

// EditPost overwrites the editable columns of post id. It returns false
// without writing anything when the post does not exist.
func (s *PostService) EditPost(ctx context.Context, id uint, patch PostPatch) (bool, error) {
	if err := validatePostFields(patch.Title, patch.Content, patch.Slug); err != nil {
		return false, err
	}

	exists, err := postExists(ctx, s.db, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := s.checkSlugFree(ctx, patch.Slug, id); err != nil {
		return false, err
	}

	update := models.Post{
		Title:           patch.Title,
		Content:         patch.Content,
		Author:          patch.Author,
		Description:     patch.Description,
		MetaTitle:       patch.MetaTitle,
		MetaDescription: patch.MetaDescription,
		ImageURL:        patch.ImageURL,
		Slug:            patch.Slug,
	}

	err = s.db.WithContext(ctx).
		Model(&models.Post{ID: id}).
		Select(postEditColumns).
		Updates(&update).Error
	if err != nil {
		logger.Log.Error("Failed to update post", logger.WithPostID(id), zap.Error(err))
		return false, fmt.Errorf("failed to update post %d: %w", id, err)
	}

	return true, nil
}

// SetImageURL replaces only the image of post id
func (s *PostService) SetImageURL(ctx context.Context, id uint, url string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Post{ID: id}).
		Update("image_url", url)
	if result.Error != nil {
		logger.Log.Error("Failed to update post image", logger.WithPostID(id), zap.Error(result.Error))
		return false, fmt.Errorf("failed to update image of post %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeletePost removes post id. Deleting a missing post returns false and no error.
func (s *PostService) DeletePost(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		logger.Log.Error("Failed to delete post", logger.WithPostID(id), zap.Error(result.Error))
		return false, fmt.Errorf("failed to delete post %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func validatePostFields(title, content, slug string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if slug != "" && !ValidSlug(slug) {
		return fmt.Errorf("%w: slug %q must be lowercase words separated by single hyphens", ErrInvalidInput, slug)
	}
	return nil
}

// checkSlugFree rejects a non-empty slug already used by a post other than exceptID
func (s *PostService) checkSlugFree(ctx context.Context, slug string, exceptID uint) error {
	if slug == "" {
		return nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: slug %q is already in use", ErrInvalidInput, slug)
	}
	return nil
}

func postExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check post %d: %w", id, err)
	}
	return count > 0, nil
}

// loadComments returns one page of a post's comments, oldest first
func loadComments(ctx context.Context, db *gorm.DB, postID uint, page Page) ([]models.Comment, error) {
	comments := make([]models.Comment, 0, page.Size)
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("create_at ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for post %d: %w", postID, err)
	}
	return comments, nil
}
