package handlers

import (
	"net/http"
	"strings"

	"soular/internal/db"
	"soular/internal/middleware"
	"soular/internal/models"
	"soular/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

type reportInput struct {
	ItemType string `json:"item_type"`
	ItemID   string `json:"item_id"` // fid or cid
	Reason   string `json:"reason"`
}

// Create files a moderation report and fans it out to admins asynchronously.
func (h *ReportHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var in reportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Reason) == "" {
		Error(c, http.StatusBadRequest, "report reason cannot be empty")
		return
	}

	report := models.Report{
		UserID:   user.ID,
		ItemType: in.ItemType,
		ItemCid:  in.ItemID,
		Reason:   in.Reason,
	}

	switch in.ItemType {
	case "film":
		var film models.Film
		if err := db.DB.Where("fid = ?", in.ItemID).First(&film).Error; err != nil {
			Error(c, http.StatusNotFound, "film not found")
			return
		}
		report.ItemID = film.ID
	case "comment":
		var comment models.Comment
		if err := db.DB.Where("cid = ?", in.ItemID).First(&comment).Error; err != nil {
			Error(c, http.StatusNotFound, "comment not found")
			return
		}
		report.ItemID = comment.ID
	default:
		Error(c, http.StatusBadRequest, "item_type must be film or comment")
		return
	}

	if err := db.DB.Create(&report).Error; err != nil {
		Error(c, http.StatusInternalServerError, "failed to create report")
		return
	}

	go services.NotifyAdminsReport(user, &report)

	c.JSON(http.StatusCreated, gin.H{"report": report})
}
