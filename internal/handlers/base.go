package handlers

import (
	"time"

	"soular/internal/db"
	"soular/internal/middleware"
	"soular/internal/models"

	"github.com/gin-gonic/gin"
)

// Error writes the shared error envelope. Every non-2xx response goes through
// here so clients can rely on the {"error": "..."} shape.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// CurrentUser returns the viewer resolved by LoadViewer, or nil for anonymous
// read-only requests.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// CheckPunished returns a refusal message when the user is muted or banned.
// Expired mutes are lifted in passing.
func CheckPunished(user *models.User) (string, bool) {
	switch user.Status {
	case models.StatusBanned:
		return "your account is banned and cannot post", true
	case models.StatusMuted:
		if user.PunishExpires != nil && time.Now().After(*user.PunishExpires) {
			// Mute expired, restore the account
			db.DB.Model(user).Updates(map[string]interface{}{
				"status":         models.StatusNormal,
				"punish_expires": nil,
			})
			user.Status = models.StatusNormal
			return "", false
		}
		return "your account is muted and cannot post for now", true
	}
	return "", false
}
