package models

import (
	"time"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Avatar        string     `gorm:"size:255" json:"avatar"`
	Bio           string     `gorm:"size:200" json:"bio"`
	Role          string     `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	Status        int        `gorm:"default:0" json:"status"`                     // 0: normal, 1: muted, 2: banned
	PunishExpires *time.Time `json:"punish_expires"`
	IsPremium     bool       `gorm:"default:false" json:"is_premium"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	// No DeletedAt for hard delete
}

const (
	StatusNormal = 0
	StatusMuted  = 1
	StatusBanned = 2
)
