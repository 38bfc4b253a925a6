package models

// Movie is a catalog entry browsed through the Telegram bot
type Movie struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Year        int    `json:"year"`
	Genre       string `gorm:"size:100" json:"genre"`
	Description string `gorm:"type:text" json:"description"`
	PosterURL   string `gorm:"size:2048" json:"posterUrl"`
}

// TableName overrides the default table name
func (Movie) TableName() string {
	return "movies"
}

// Cartoon shares the Movie shape but lives in its own table
type Cartoon struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Year        int    `json:"year"`
	Genre       string `gorm:"size:100" json:"genre"`
	Description string `gorm:"type:text" json:"description"`
	PosterURL   string `gorm:"size:2048" json:"posterUrl"`
}

// TableName overrides the default table name
func (Cartoon) TableName() string {
	return "cartoons"
}

// AllModels lists every table managed by AutoMigrate, parents first
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Movie{},
		&Cartoon{},
	}
}
