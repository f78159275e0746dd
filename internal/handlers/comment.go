package handlers

import (
	"net/http"
	"strings"
	"time"

	"soular/internal/db"
	"soular/internal/middleware"
	"soular/internal/models"
	"soular/internal/services"
	"soular/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// CommentView is the wire shape of one item. The raw markdown body and the
// sanitized rendering both ship so clients can edit and display without a
// second round trip.
type CommentView struct {
	ID                string    `json:"id"`
	ParentID          string    `json:"parent_id"` // film fid
	AuthorID          uint      `json:"author_id"`
	AuthorDisplayName string    `json:"author_display_name"`
	AuthorAvatar      string    `json:"author_avatar"`
	BodyText          string    `json:"body_text"`
	BodyHTML          string    `json:"body_html"`
	Rating            *int      `json:"rating,omitempty"`
	LikeCount         int       `json:"like_count"`
	ReplyTo           *string   `json:"reply_to,omitempty"` // cid of the comment being answered
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	ViewerHasLiked    bool      `json:"viewer_has_liked"`
}

type commentInput struct {
	Body    string  `json:"body"`
	Rating  *int    `json:"rating"`
	ReplyTo *string `json:"reply_to"`
}

func commentView(film *models.Film, com *models.Comment, author *models.User, replyTo *string, liked bool) CommentView {
	return CommentView{
		ID:                com.Cid,
		ParentID:          film.Fid,
		AuthorID:          author.ID,
		AuthorDisplayName: author.Username,
		AuthorAvatar:      author.Avatar,
		BodyText:          com.Body,
		BodyHTML:          utils.RenderMarkdown(com.Body),
		Rating:            com.Rating,
		LikeCount:         com.LikeCount,
		ReplyTo:           replyTo,
		CreatedAt:         com.CreatedAt,
		UpdatedAt:         com.UpdatedAt,
		ViewerHasLiked:    liked,
	}
}

// fillViewerLikes bulk-queries which of the listed comments the viewer liked.
func fillViewerLikes(userID uint, comments []models.Comment) map[uint]bool {
	liked := make(map[uint]bool)
	if userID == 0 || len(comments) == 0 {
		return liked
	}

	ids := make([]uint, len(comments))
	for i, com := range comments {
		ids[i] = com.ID
	}

	var likes []models.Like
	db.DB.Where("user_id = ? AND comment_id IN ?", userID, ids).Find(&likes)
	for _, l := range likes {
		liked[l.CommentID] = true
	}
	return liked
}

func findFilm(c *gin.Context) (*models.Film, bool) {
	var film models.Film
	if err := db.DB.Where("fid = ?", c.Param("parent_id")).First(&film).Error; err != nil {
		Error(c, http.StatusNotFound, "film not found")
		return nil, false
	}
	return &film, true
}

// List returns the film's comments newest-first plus the aggregates the
// client adopts verbatim on load.
func (h *CommentHandler) List(c *gin.Context) {
	film, ok := findFilm(c)
	if !ok {
		return
	}

	userID := uint(0)
	if user := CurrentUser(c); user != nil {
		userID = user.ID
	}

	var comments []models.Comment
	db.DB.Preload("User").
		Where("film_id = ?", film.ID).
		Order("created_at DESC").
		Find(&comments)

	liked := fillViewerLikes(userID, comments)

	// Resolve reply targets in one pass
	cidByID := make(map[uint]string, len(comments))
	for _, com := range comments {
		cidByID[com.ID] = com.Cid
	}

	items := make([]CommentView, len(comments))
	for i, com := range comments {
		var replyTo *string
		if com.ParentID != nil {
			if cid, ok := cidByID[*com.ParentID]; ok {
				replyTo = &cid
			}
		}
		items[i] = commentView(film, &comments[i], &com.User, replyTo, liked[com.ID])
	}

	agg := services.GetCommentAggregates(film.ID)

	c.JSON(http.StatusOK, gin.H{
		"items":          items,
		"total":          agg.Total,
		"average_rating": agg.AverageRating,
	})
}

// Create stores a new comment. Nothing is written until the input passes the
// same checks the client runs, so a failed create leaves no trace.
func (h *CommentHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	if msg, punished := CheckPunished(user); punished {
		Error(c, http.StatusForbidden, msg)
		return
	}

	film, ok := findFilm(c)
	if !ok {
		return
	}

	var in commentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Body) == "" {
		Error(c, http.StatusBadRequest, "comment body cannot be empty")
		return
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		Error(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	var parentID *uint
	var replyTo *string
	if in.ReplyTo != nil && *in.ReplyTo != "" {
		var parent models.Comment
		if err := db.DB.Where("cid = ? AND film_id = ?", *in.ReplyTo, film.ID).First(&parent).Error; err != nil {
			Error(c, http.StatusNotFound, "comment to reply to not found")
			return
		}
		parentID = &parent.ID
		replyTo = in.ReplyTo
	}

	comment := models.Comment{
		Cid:      utils.RandString(8),
		FilmID:   film.ID,
		UserID:   user.ID,
		Body:     in.Body,
		Rating:   in.Rating,
		ParentID: parentID,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		Error(c, http.StatusInternalServerError, "failed to create comment")
		return
	}

	services.InvalidateCommentAggregates(film.ID)

	if parentID != nil {
		go services.NotifyReply(user, film, *parentID, comment.Cid)
	}

	c.JSON(http.StatusCreated, gin.H{
		"item": commentView(film, &comment, user, replyTo, false),
	})
}

// Update edits body and rating. Only the author may edit; admins moderate via
// delete, not rewriting other people's words.
func (h *CommentHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	film, ok := findFilm(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := db.DB.Where("cid = ? AND film_id = ?", c.Param("item_id"), film.ID).First(&comment).Error; err != nil {
		Error(c, http.StatusNotFound, "comment not found")
		return
	}

	if comment.UserID != user.ID {
		Error(c, http.StatusForbidden, "you can only edit your own comments")
		return
	}

	var in commentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Body) == "" {
		Error(c, http.StatusBadRequest, "comment body cannot be empty")
		return
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		Error(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	comment.Body = in.Body
	if in.Rating != nil {
		comment.Rating = in.Rating
	}

	if err := db.DB.Save(&comment).Error; err != nil {
		Error(c, http.StatusInternalServerError, "failed to update comment")
		return
	}

	services.InvalidateCommentAggregates(film.ID)

	var replyTo *string
	if comment.ParentID != nil {
		var parent models.Comment
		if err := db.DB.Select("cid").First(&parent, *comment.ParentID).Error; err == nil {
			replyTo = &parent.Cid
		}
	}

	liked := fillViewerLikes(user.ID, []models.Comment{comment})

	c.JSON(http.StatusOK, gin.H{
		"item": commentView(film, &comment, user, replyTo, liked[comment.ID]),
	})
}

// Delete removes the comment, its likes, and its rating contribution. The
// author or an admin may delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	film, ok := findFilm(c)
	if !ok {
		return
	}

	var comment models.Comment
	if err := db.DB.Where("cid = ? AND film_id = ?", c.Param("item_id"), film.ID).First(&comment).Error; err != nil {
		Error(c, http.StatusNotFound, "comment not found")
		return
	}

	if comment.UserID != user.ID && user.Role != "admin" {
		Error(c, http.StatusForbidden, "you can only delete your own comments")
		return
	}

	tx := db.DB.Begin()
	if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		Error(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	if err := tx.Delete(&comment).Error; err != nil {
		tx.Rollback()
		Error(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	tx.Commit()

	services.InvalidateCommentAggregates(film.ID)

	c.Status(http.StatusNoContent)
}
