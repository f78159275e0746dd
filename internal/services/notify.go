package services

import (
	"fmt"
	"soular/internal/db"
	"soular/internal/models"
)

// NotifyReply tells the parent comment's author someone answered them.
// Called from a goroutine; never notifies the actor about themselves.
func NotifyReply(actor *models.User, film *models.Film, parentID uint, replyCid string) {
	var parent models.Comment
	if err := db.DB.First(&parent, parentID).Error; err != nil {
		return
	}
	if parent.UserID == actor.ID {
		return
	}

	notification := models.Notification{
		UserID:  parent.UserID,
		ActorID: &actor.ID,
		Type:    models.NotificationTypeReplyComment,
		Reason:  fmt.Sprintf("%s replied to your comment on \"%s\" (/films/%s#comment-%s)", actor.Username, film.Title, film.Fid, replyCid),
	}
	db.DB.Create(&notification)
}

// NotifyCommentLiked tells a comment's author about a new like.
func NotifyCommentLiked(actor *models.User, comment *models.Comment) {
	if comment.UserID == actor.ID {
		return
	}

	var film models.Film
	if err := db.DB.First(&film, comment.FilmID).Error; err != nil {
		return
	}

	notification := models.Notification{
		UserID:  comment.UserID,
		ActorID: &actor.ID,
		Type:    models.NotificationTypeCommentLiked,
		Reason:  fmt.Sprintf("%s liked your comment on \"%s\"", actor.Username, film.Title),
	}
	db.DB.Create(&notification)
}

// NotifyAdminsReport fans a moderation report out to every admin account.
func NotifyAdminsReport(actor *models.User, report *models.Report) {
	var admins []models.User
	if err := db.DB.Where("role = ?", "admin").Find(&admins).Error; err != nil {
		return
	}

	reason := fmt.Sprintf("%s reported %s %s: %s", actor.Username, report.ItemType, report.ItemCid, report.Reason)
	for _, admin := range admins {
		notification := models.Notification{
			UserID:  admin.ID,
			ActorID: &actor.ID,
			Type:    models.NotificationTypeReport,
			Reason:  reason,
		}
		db.DB.Create(&notification)
	}
}
