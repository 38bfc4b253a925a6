package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
	now func() time.Time
}

// NewSeeder creates a new seeder instance. A seed of 0 picks a random one.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Seed returns an error only for invalid sources
	_ = gofakeit.Seed(seed)
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SeedDev fills the development database with realistic data
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Creating posts...")
	created, err := s.seedPosts(50)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating comments...")
	if err := s.seedComments(created, 300); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating catalog...")
	if err := s.seedMovies(40); err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}
	if err := s.seedCartoons(25); err != nil {
		return fmt.Errorf("failed to seed cartoons: %w", err)
	}

	return nil
}

// SeedTest inserts the small fixed data set the API scenarios use
func (s *Seeder) SeedTest() error {
	base := s.now().Add(-time.Hour)

	fixtures := []models.Post{
		{
			Title:       "Test Post 1",
			Description: "First test post",
			Content:     "This is the content of the first test post.",
			Author:      "Test Author",
			Slug:        "test-post-1",
			CreateAt:    base,
		},
		{
			Title:       "Test Post 2",
			Description: "Second test post",
			Content:     "This is the content of the second test post.",
			Author:      "Test Author",
			Slug:        "test-post-2",
			CreateAt:    base.Add(time.Minute),
		},
	}
	for i := range fixtures {
		if err := s.db.Create(&fixtures[i]).Error; err != nil {
			return fmt.Errorf("failed to create test post: %w", err)
		}
	}

	comments := []models.Comment{
		{PostID: fixtures[0].ID, Author: "Reader", Content: "Great post!", CreateAt: base.Add(2 * time.Minute)},
		{PostID: fixtures[0].ID, Author: "Reader", Content: "Thanks for sharing.", CreateAt: base.Add(3 * time.Minute)},
	}
	if err := s.db.Create(&comments).Error; err != nil {
		return fmt.Errorf("failed to create test comments: %w", err)
	}

	movies := []models.Movie{
		{Title: "The Matrix", Year: 1999, Genre: "Sci-Fi"},
		{Title: "Inception", Year: 2010, Genre: "Sci-Fi"},
		{Title: "Heat", Year: 1995, Genre: "Crime"},
	}
	if err := s.db.Create(&movies).Error; err != nil {
		return fmt.Errorf("failed to create test movies: %w", err)
	}

	cartoons := []models.Cartoon{
		{Title: "Spirited Away", Year: 2001, Genre: "Fantasy"},
		{Title: "Toy Story", Year: 1995, Genre: "Family"},
	}
	if err := s.db.Create(&cartoons).Error; err != nil {
		return fmt.Errorf("failed to create test cartoons: %w", err)
	}

	logger.Log.Info("Seeded test data",
		zap.Int("posts", len(fixtures)),
		zap.Int("comments", len(comments)),
		zap.Int("movies", len(movies)),
		zap.Int("cartoons", len(cartoons)))
	return nil
}

// Clean removes every seeded row. Users are kept.
func (s *Seeder) Clean() error {
	// Children first
	for _, table := range []string{"comments", "posts", "movies", "cartoons"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedPosts(count int) ([]models.Post, error) {
	created := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		title := strings.TrimSuffix(gofakeit.HipsterSentence(), ".")
		if len(title) > 200 {
			title = title[:200]
		}

		paragraphs := make([]string, 3+s.rng.Intn(4))
		for j := range paragraphs {
			paragraphs[j] = gofakeit.HipsterSentence() + " " + gofakeit.HipsterSentence()
		}

		post := models.Post{
			Title:           title,
			Description:     gofakeit.HipsterSentence(),
			Content:         strings.Join(paragraphs, "\n\n"),
			Author:          gofakeit.Name(),
			CreateAt:        gofakeit.DateRange(s.now().AddDate(0, -6, 0), s.now()),
			MetaTitle:       truncate(title, 100),
			MetaDescription: gofakeit.HipsterSentence(),
		}
		if slug := posts.Slugify(title); slug != "" {
			post.Slug = truncate(fmt.Sprintf("%s-%d", slug, i+1), 200)
		}
		if s.rng.Float32() < 0.5 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/450", gofakeit.UUID())
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		created = append(created, post)
	}

	logger.Log.Info("Created posts", zap.Int("count", len(created)))
	return created, nil
}

func (s *Seeder) seedComments(parents []models.Post, count int) error {
	if len(parents) == 0 {
		return nil
	}

	templates := []string{
		"Great read, thanks!",
		"I disagree with the second point.",
		"Bookmarked for later",
		"Could you write a follow-up?",
		"Very helpful",
	}

	for i := 0; i < count; i++ {
		post := parents[s.rng.Intn(len(parents))]

		content := gofakeit.HipsterSentence()
		if s.rng.Float32() < 0.3 {
			content = templates[s.rng.Intn(len(templates))]
		}

		comment := models.Comment{
			PostID:   post.ID,
			Author:   gofakeit.Username(),
			Content:  content,
			CreateAt: gofakeit.DateRange(post.CreateAt, s.now()),
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
	}

	logger.Log.Info("Created comments", zap.Int("count", count))
	return nil
}

var genres = []string{"Drama", "Comedy", "Action", "Sci-Fi", "Thriller", "Romance", "Documentary"}

func (s *Seeder) seedMovies(count int) error {
	movies := make([]models.Movie, 0, count)
	for i := 0; i < count; i++ {
		movies = append(movies, models.Movie{
			Title:       titleCase(gofakeit.Word() + " " + gofakeit.Word()),
			Year:        1950 + s.rng.Intn(75),
			Genre:       genres[s.rng.Intn(len(genres))],
			Description: gofakeit.HipsterSentence(),
		})
	}
	if err := s.db.CreateInBatches(&movies, 100).Error; err != nil {
		return fmt.Errorf("failed to create movies: %w", err)
	}
	logger.Log.Info("Created movies", zap.Int("count", count))
	return nil
}

func (s *Seeder) seedCartoons(count int) error {
	cartoons := make([]models.Cartoon, 0, count)
	for i := 0; i < count; i++ {
		cartoons = append(cartoons, models.Cartoon{
			Title:       "The " + titleCase(gofakeit.Word()) + " Adventures",
			Year:        1930 + s.rng.Intn(95),
			Genre:       "Animation",
			Description: gofakeit.HipsterSentence(),
		})
	}
	if err := s.db.CreateInBatches(&cartoons, 100).Error; err != nil {
		return fmt.Errorf("failed to create cartoons: %w", err)
	}
	logger.Log.Info("Created cartoons", zap.Int("count", count))
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-")
}
