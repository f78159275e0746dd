package handlers

import (
	"net/http"

	"soular/internal/db"
	"soular/internal/middleware"
	"soular/internal/models"
	"soular/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

func (h *LikeHandler) findComment(c *gin.Context) (*models.Comment, bool) {
	var film models.Film
	if err := db.DB.Where("fid = ?", c.Param("parent_id")).First(&film).Error; err != nil {
		Error(c, http.StatusNotFound, "film not found")
		return nil, false
	}

	var comment models.Comment
	if err := db.DB.Where("cid = ? AND film_id = ?", c.Param("item_id"), film.ID).First(&comment).Error; err != nil {
		Error(c, http.StatusNotFound, "comment not found")
		return nil, false
	}
	return &comment, true
}

// Like records the viewer's like and bumps the denormalized counter in one
// transaction. Liking twice is a no-op, the unique index backs this up.
func (h *LikeHandler) Like(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	comment, ok := h.findComment(c)
	if !ok {
		return
	}

	tx := db.DB.Begin()

	var existing models.Like
	if err := tx.Where("user_id = ? AND comment_id = ?", user.ID, comment.ID).First(&existing).Error; err == nil {
		// Already liked
		tx.Rollback()
		c.Status(http.StatusNoContent)
		return
	}

	like := models.Like{
		UserID:    user.ID,
		CommentID: comment.ID,
	}
	if err := tx.Create(&like).Error; err != nil {
		tx.Rollback()
		Error(c, http.StatusInternalServerError, "failed to like comment")
		return
	}

	if err := tx.Model(&models.Comment{}).Where("id = ?", comment.ID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		Error(c, http.StatusInternalServerError, "failed to like comment")
		return
	}

	tx.Commit()

	go services.NotifyCommentLiked(user, comment)

	c.Status(http.StatusNoContent)
}

// Unlike removes the viewer's like. The counter never goes below zero even if
// the like row was already gone.
func (h *LikeHandler) Unlike(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	comment, ok := h.findComment(c)
	if !ok {
		return
	}

	tx := db.DB.Begin()

	res := tx.Where("user_id = ? AND comment_id = ?", user.ID, comment.ID).Delete(&models.Like{})
	if res.Error != nil {
		tx.Rollback()
		Error(c, http.StatusInternalServerError, "failed to unlike comment")
		return
	}
	if res.RowsAffected == 0 {
		// Nothing to remove
		tx.Rollback()
		c.Status(http.StatusNoContent)
		return
	}

	if err := tx.Model(&models.Comment{}).
		Where("id = ? AND like_count > 0", comment.ID).
		UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error; err != nil {
		tx.Rollback()
		Error(c, http.StatusInternalServerError, "failed to unlike comment")
		return
	}

	tx.Commit()

	c.Status(http.StatusNoContent)
}
