package models

import (
	"time"

	"gorm.io/gorm"
)

// Movie 电影条目
type Movie struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title     string `gorm:"not null;index" json:"title"`
	Year      int    `json:"year"`
	Genres    string `json:"genres"` // comma separated, e.g. "drama,thriller"
	Overview  string `json:"overview"`
	PosterURL string `json:"poster_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Movie) TableName() string {
	return "movies"
}
