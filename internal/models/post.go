package models

import "time"

// Post is a blog article with SEO metadata. It owns its comments; deleting a
// post removes them through the foreign key cascade.
type Post struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"size:500" json:"description"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	Author          string    `gorm:"size:100" json:"author"`
	CreateAt        time.Time `gorm:"not null" json:"createAt"`
	ImageURL        string    `gorm:"size:2048" json:"imageUrl"`
	MetaTitle       string    `gorm:"size:100" json:"metaTitle"`
	MetaDescription string    `gorm:"size:300" json:"metaDescription"`
	Slug            string    `gorm:"size:200;index" json:"slug"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
}

// TableName overrides the default table name
func (Post) TableName() string {
	return "posts"
}

// Comment is a reply owned by exactly one Post
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Author   string    `gorm:"size:100" json:"author"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	CreateAt time.Time `gorm:"not null;index:idx_comments_post_created,priority:2" json:"createAt"`
	PostID   uint      `gorm:"not null;index:idx_comments_post_created,priority:1" json:"postId"`
}

// TableName overrides the default table name
func (Comment) TableName() string {
	return "comments"
}
