package posts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type serviceSuite struct {
	suite.Suite
	db       *gorm.DB
	posts    *PostService
	comments *CommentService
	ctx      context.Context
}

type PostServiceTestSuite struct {
	serviceSuite
}

func (s *serviceSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	clock := testutil.SteppingClock(testEpoch)
	s.posts = NewPostService(s.db, WithClock(clock))
	s.comments = NewCommentService(s.db, WithClock(clock))
	s.ctx = context.Background()
}

func (s *serviceSuite) addPost(title string) uint {
	id, err := s.posts.AddPost(s.ctx, &models.Post{
		Title:   title,
		Content: "Content for " + title,
		Author:  "tester",
	})
	s.Require().NoError(err)
	return id
}

func (s *serviceSuite) addComment(postID uint, content string) uint {
	id, err := s.comments.AddComment(s.ctx, postID, &models.Comment{Author: "reader", Content: content})
	s.Require().NoError(err)
	return id
}

func (s *serviceSuite) countRows(model interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Count(&n).Error)
	return n
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *PostServiceTestSuite) TestAddAndGetPost() {
	post := &models.Post{
		Title:           "Test Post 1",
		Description:     "Short description",
		Content:         "This is the content of test post 1",
		Author:          "alice",
		ImageURL:        "https://example.com/a.png",
		MetaTitle:       "Meta 1",
		MetaDescription: "Meta description 1",
		Slug:            "test-post-1",
	}

	id, err := s.posts.AddPost(s.ctx, post)
	s.Require().NoError(err)
	s.NotZero(id)
	s.Equal(id, post.ID)
	s.True(post.CreateAt.Equal(testEpoch.Add(time.Second)))

	got, err := s.posts.GetPost(s.ctx, id, Page{}, false)
	s.Require().NoError(err)
	s.Equal(post.Title, got.Title)
	s.Equal(post.Description, got.Description)
	s.Equal(post.Content, got.Content)
	s.Equal(post.Author, got.Author)
	s.Equal(post.ImageURL, got.ImageURL)
	s.Equal(post.MetaTitle, got.MetaTitle)
	s.Equal(post.MetaDescription, got.MetaDescription)
	s.Equal(post.Slug, got.Slug)
	s.True(got.CreateAt.Equal(post.CreateAt))
	s.NotNil(got.Comments)
	s.Empty(got.Comments)
}

func (s *PostServiceTestSuite) TestAddPostIgnoresClientIDAndComments() {
	post := &models.Post{
		ID:       99,
		Title:    "Ignored id",
		Content:  "Content that matters",
		CreateAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		Comments: []models.Comment{{Content: "smuggled"}},
	}

	id, err := s.posts.AddPost(s.ctx, post)
	s.Require().NoError(err)
	s.NotEqual(uint(99), id)
	s.Equal(2024, post.CreateAt.Year())
	s.Equal(int64(0), s.countRows(&models.Comment{}))
}

func (s *PostServiceTestSuite) TestAddPostRejectsInvalidInput() {
	_, err := s.posts.AddPost(s.ctx, nil)
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.posts.AddPost(s.ctx, &models.Post{Content: "no title"})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.posts.AddPost(s.ctx, &models.Post{Title: "no content"})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.posts.AddPost(s.ctx, &models.Post{Title: "bad slug", Content: "content", Slug: "Bad Slug"})
	s.ErrorIs(err, ErrInvalidInput)

	s.Equal(int64(0), s.countRows(&models.Post{}))
}

func (s *PostServiceTestSuite) TestSlugsAreUnique() {
	first, err := s.posts.AddPost(s.ctx, &models.Post{Title: "First", Content: "First content", Slug: "shared"})
	s.Require().NoError(err)

	_, err = s.posts.AddPost(s.ctx, &models.Post{Title: "Second", Content: "Second content", Slug: "shared"})
	s.ErrorIs(err, ErrInvalidInput)

	// keeping its own slug is fine
	ok, err := s.posts.EditPost(s.ctx, first, PostPatch{Title: "First", Content: "Edited content", Slug: "shared"})
	s.Require().NoError(err)
	s.True(ok)

	second := s.addPost("Second")
	_, err = s.posts.EditPost(s.ctx, second, PostPatch{Title: "Second", Content: "Second content", Slug: "shared"})
	s.ErrorIs(err, ErrInvalidInput)

	// posts without a slug never collide
	s.addPost("Third")
	s.addPost("Fourth")
}

func (s *PostServiceTestSuite) TestGetPostNotFound() {
	_, err := s.posts.GetPost(s.ctx, 12345, Page{}, true)
	s.ErrorIs(err, ErrPostNotFound)
}

func (s *PostServiceTestSuite) TestListPostsOrdersByID() {
	for i := 1; i <= 7; i++ {
		s.addPost(fmt.Sprintf("Post %d", i))
	}

	page, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: 2, PageSize: 3})
	s.Require().NoError(err)
	s.Equal([]uint{4, 5, 6}, postIDs(page))

	last, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: 3, PageSize: 3})
	s.Require().NoError(err)
	s.Equal([]uint{7}, postIDs(last))

	beyond, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: 10, PageSize: 3})
	s.Require().NoError(err)
	s.NotNil(beyond)
	s.Empty(beyond)
}

func (s *PostServiceTestSuite) TestListPostsClampsPagination() {
	for i := 1; i <= 12; i++ {
		s.addPost(fmt.Sprintf("Post %d", i))
	}

	clamped, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: 0, PageSize: 0})
	s.Require().NoError(err)

	defaults, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: 1, PageSize: 10})
	s.Require().NoError(err)

	s.Len(clamped, 10)
	s.Equal(postIDs(defaults), postIDs(clamped))

	negative, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: -4, PageSize: -1})
	s.Require().NoError(err)
	s.Equal(postIDs(defaults), postIDs(negative))
}

func (s *PostServiceTestSuite) TestListPostsWithoutCommentsReturnsEmptyLists() {
	postID := s.addPost("With comments")
	s.addComment(postID, "first")

	posts, err := s.posts.ListPosts(s.ctx, ListOptions{PageNumber: 1, PageSize: 10, IncludeComments: false})
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.NotNil(posts[0].Comments)
	s.Empty(posts[0].Comments)
}

func (s *PostServiceTestSuite) TestListPostsPagesCommentsPerPost() {
	first := s.addPost("Test Post 1")
	second := s.addPost("Test Post 2")
	for i := 1; i <= 3; i++ {
		s.addComment(first, fmt.Sprintf("first post comment %d", i))
	}
	s.addComment(second, "second post comment 1")

	posts, err := s.posts.ListPosts(s.ctx, ListOptions{
		PageNumber:        1,
		PageSize:          10,
		CommentPageNumber: 2,
		CommentsPerPage:   2,
		IncludeComments:   true,
	})
	s.Require().NoError(err)
	s.Require().Len(posts, 2)

	s.Require().Len(posts[0].Comments, 1)
	s.Equal("first post comment 3", posts[0].Comments[0].Content)
	s.Empty(posts[1].Comments)

	posts, err = s.posts.ListPosts(s.ctx, ListOptions{
		PageNumber:        1,
		PageSize:          10,
		CommentPageNumber: 1,
		CommentsPerPage:   2,
		IncludeComments:   true,
	})
	s.Require().NoError(err)
	s.Require().Len(posts[0].Comments, 2)
	s.Equal("first post comment 1", posts[0].Comments[0].Content)
	s.Equal("first post comment 2", posts[0].Comments[1].Content)
	s.Require().Len(posts[1].Comments, 1)
	s.Equal(second, posts[1].Comments[0].PostID)
}

func (s *PostServiceTestSuite) TestGetPostIncludesCommentPage() {
	postID := s.addPost("Commented")
	for i := 1; i <= 4; i++ {
		s.addComment(postID, fmt.Sprintf("comment %d", i))
	}

	post, err := s.posts.GetPost(s.ctx, postID, Page{Number: 2, Size: 3}, true)
	s.Require().NoError(err)
	s.Require().Len(post.Comments, 1)
	s.Equal("comment 4", post.Comments[0].Content)

	post, err = s.posts.GetPost(s.ctx, postID, Page{}, true)
	s.Require().NoError(err)
	s.Len(post.Comments, 4)
}

func (s *PostServiceTestSuite) TestEditPost() {
	id := s.addPost("Original")
	before, err := s.posts.GetPost(s.ctx, id, Page{}, false)
	s.Require().NoError(err)

	ok, err := s.posts.EditPost(s.ctx, id, PostPatch{
		Title:   "Updated",
		Content: "Updated content",
		Author:  "bob",
		Slug:    "updated",
	})
	s.Require().NoError(err)
	s.True(ok)

	after, err := s.posts.GetPost(s.ctx, id, Page{}, false)
	s.Require().NoError(err)
	s.Equal("Updated", after.Title)
	s.Equal("Updated content", after.Content)
	s.Equal("bob", after.Author)
	s.Equal("updated", after.Slug)
	s.Equal("", after.Description)
	s.True(before.CreateAt.Equal(after.CreateAt))
}

func (s *PostServiceTestSuite) TestEditMissingPostDoesNotInsert() {
	ok, err := s.posts.EditPost(s.ctx, 42, PostPatch{Title: "Ghost", Content: "Nothing here"})
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(int64(0), s.countRows(&models.Post{}))
}

func (s *PostServiceTestSuite) TestEditPostRejectsInvalidPatch() {
	id := s.addPost("Keep me")

	_, err := s.posts.EditPost(s.ctx, id, PostPatch{Title: "", Content: "content"})
	s.ErrorIs(err, ErrInvalidInput)

	post, err := s.posts.GetPost(s.ctx, id, Page{}, false)
	s.Require().NoError(err)
	s.Equal("Keep me", post.Title)
}

func (s *PostServiceTestSuite) TestSetImageURL() {
	id := s.addPost("Image")

	ok, err := s.posts.SetImageURL(s.ctx, id, "https://cdn.example.com/posts/1.png")
	s.Require().NoError(err)
	s.True(ok)

	post, err := s.posts.GetPost(s.ctx, id, Page{}, false)
	s.Require().NoError(err)
	s.Equal("https://cdn.example.com/posts/1.png", post.ImageURL)
	s.Equal("Image", post.Title)

	ok, err = s.posts.SetImageURL(s.ctx, 999, "https://cdn.example.com/x.png")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *PostServiceTestSuite) TestDeletePost() {
	id := s.addPost("Doomed")

	ok, err := s.posts.DeletePost(s.ctx, id)
	s.Require().NoError(err)
	s.True(ok)

	_, err = s.posts.GetPost(s.ctx, id, Page{}, false)
	s.ErrorIs(err, ErrPostNotFound)

	ok, err = s.posts.DeletePost(s.ctx, id)
	s.Require().NoError(err)
	s.False(ok)
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}

func TestDefaultClockIsUTC(t *testing.T) {
	o := buildOptions(nil)
	now := o.now()
	require.False(t, now.IsZero())
	assert.Equal(t, time.UTC, now.Location())
}
