package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero values", Page{0, 0}, Page{1, 10}},
		{"negative values", Page{-3, -1}, Page{1, 10}},
		{"valid values kept", Page{3, 25}, Page{3, 25}},
		{"only size clamped", Page{2, 0}, Page{2, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{1, 10}.Offset())
	assert.Equal(t, 20, Page{3, 10}.Offset())
	assert.Equal(t, 0, Page{0, 0}.Offset())
	assert.Equal(t, 5, Page{2, 5}.Offset())
}

func TestListOptionsPages(t *testing.T) {
	opts := ListOptions{PageNumber: 0, PageSize: 4, CommentPageNumber: 2, CommentsPerPage: -1}
	assert.Equal(t, Page{1, 4}, opts.PostPage())
	assert.Equal(t, Page{2, 10}, opts.CommentPage())
}
