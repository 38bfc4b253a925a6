package posts

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// Page selects one page of an ordered list. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps values below 1 to the defaults. Callers cannot tell a
// clamped request from one that asked for the defaults.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// ListOptions controls a post listing and the comment page attached to each post
type ListOptions struct {
	PageNumber        int
	PageSize          int
	CommentPageNumber int
	CommentsPerPage   int
	IncludeComments   bool
}

// PostPage returns the clamped page of posts
func (o ListOptions) PostPage() Page {
	return Page{Number: o.PageNumber, Size: o.PageSize}.Normalize()
}

// CommentPage returns the clamped page of comments per post
func (o ListOptions) CommentPage() Page {
	return Page{Number: o.CommentPageNumber, Size: o.CommentsPerPage}.Normalize()
}
