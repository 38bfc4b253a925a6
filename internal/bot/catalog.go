// Package bot implements the Telegram movie and cartoon catalog bot: a
// dispatcher mapping menu labels to catalog pages, per-chat cursors, and a
// long-polling runner.
package bot

import (
	"context"
	"fmt"

	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/posts"
	"gorm.io/gorm"
)

// Kind names a browsable list
type Kind string

const (
	KindMovies   Kind = "movie"
	KindCartoons Kind = "cartoon"
)

// Item is one catalog entry as shown to a chat
type Item struct {
	ID          uint
	Title       string
	Year        int
	Genre       string
	Description string
}

// Catalog pages through the movie and cartoon lists
type Catalog interface {
	// Page returns the items of one page ordered by id and the total size of the list
	Page(ctx context.Context, kind Kind, page posts.Page) ([]Item, int64, error)
}

// GormCatalog reads the catalog tables through GORM
type GormCatalog struct {
	db *gorm.DB
}

// NewGormCatalog creates a catalog backed by db
func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) Page(ctx context.Context, kind Kind, page posts.Page) ([]Item, int64, error) {
	page = page.Normalize()

	switch kind {
	case KindMovies:
		var rows []models.Movie
		total, err := c.fetch(ctx, &models.Movie{}, &rows, page)
		if err != nil {
			return nil, 0, err
		}
		items := make([]Item, 0, len(rows))
		for _, m := range rows {
			items = append(items, Item{ID: m.ID, Title: m.Title, Year: m.Year, Genre: m.Genre, Description: m.Description})
		}
		return items, total, nil
	case KindCartoons:
		var rows []models.Cartoon
		total, err := c.fetch(ctx, &models.Cartoon{}, &rows, page)
		if err != nil {
			return nil, 0, err
		}
		items := make([]Item, 0, len(rows))
		for _, m := range rows {
			items = append(items, Item{ID: m.ID, Title: m.Title, Year: m.Year, Genre: m.Genre, Description: m.Description})
		}
		return items, total, nil
	default:
		return nil, 0, fmt.Errorf("unknown catalog kind %q", kind)
	}
}

func (c *GormCatalog) fetch(ctx context.Context, model interface{}, dest interface{}, page posts.Page) (int64, error) {
	var total int64
	if err := c.db.WithContext(ctx).Model(model).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	err := c.db.WithContext(ctx).
		Model(model).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(dest).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog page: %w", err)
	}
	return total, nil
}
