package models

import (
	"time"
)

// Comment is a user-authored item attached to one film. Rating is optional
// (1..5) so plain replies and rated reviews share the same table. LikeCount is
// denormalized from the likes relation and kept in step transactionally.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Cid       string    `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	FilmID    uint      `gorm:"not null;index" json:"film_id"`
	Film      Film      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent    *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body_text"`
	Rating    *int      `json:"rating"` // 1..5, nil when the comment carries no rating
	LikeCount int       `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
