package models

import (
	"time"
)

type Film struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fid         string    `gorm:"uniqueIndex;size:8;not null" json:"fid"`
	Title       string    `gorm:"not null" json:"title"`
	Director    string    `gorm:"size:100" json:"director"`
	Synopsis    string    `gorm:"type:text" json:"synopsis"`
	PosterURL   string    `json:"poster_url"`
	StreamURL   string    `json:"stream_url,omitempty"` // hidden for non-premium viewers on premium films
	Year        int       `json:"year"`
	IsPremium   bool      `gorm:"default:false" json:"is_premium"`
	Views       int       `gorm:"default:0" json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Filled at query time, not stored
	CommentCount  int     `gorm:"-" json:"comment_count"`
	AverageRating float64 `gorm:"-" json:"average_rating"`
}
