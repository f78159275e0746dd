package handlers

import (
	"net/http"

	"soular/internal/db"
	"soular/internal/middleware"
	"soular/internal/models"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile returns the public profile of any user.
func (h *UserHandler) Profile(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		Error(c, http.StatusNotFound, "user not found")
		return
	}

	var commentCount int64
	db.DB.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&commentCount)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"avatar":     user.Avatar,
			"bio":        user.Bio,
			"created_at": user.CreatedAt,
		},
		"comment_count": commentCount,
	})
}

// Me returns the viewer's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateSettings applies a typed partial update to the viewer's profile.
// Fields absent from the request body stay untouched; present fields are
// validated as a whole before anything is written.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := patch.Validate(); err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if !patch.Apply(user) {
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	if err := db.DB.Save(user).Error; err != nil {
		Error(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
