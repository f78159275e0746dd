package models

import (
	"time"
)

type Report struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // Reporter
	ItemType  string    `gorm:"size:20;not null" json:"item_type"` // "film" or "comment"
	ItemID    uint      `gorm:"not null" json:"item_id"`
	ItemCid   string    `gorm:"size:8" json:"item_cid"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Handled   bool      `gorm:"default:false" json:"handled"`
	CreatedAt time.Time `json:"created_at"`
}
