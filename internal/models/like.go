package models

import (
	"time"
)

// Like is the user<->comment relation behind Comment.LikeCount.
// The composite unique index keeps one like per viewer per comment; Postgres
// enforces it so racing double-likes fail on insert instead of double counting.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_user_comment;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
