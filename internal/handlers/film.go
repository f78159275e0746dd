package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"soular/internal/db"
	"soular/internal/models"
	"soular/internal/services"
	"soular/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FilmHandler struct{}

func NewFilmHandler() *FilmHandler {
	return &FilmHandler{}
}

// fillCommentCounts bulk-fills the comment count for a page of films.
func fillCommentCounts(films []models.Film) {
	if len(films) == 0 {
		return
	}

	filmIDs := make([]uint, len(films))
	for i, f := range films {
		filmIDs[i] = f.ID
	}

	type CountResult struct {
		FilmID uint
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("film_id, COUNT(*) as count").
		Where("film_id IN ?", filmIDs).
		Group("film_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.FilmID] = r.Count
	}

	for i := range films {
		films[i].CommentCount = countMap[films[i].ID]
	}
}

// List returns the catalog, newest first, 30 per page.
func (h *FilmHandler) List(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	cacheKey := fmt.Sprintf("film:list:page:%d", page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Film{}).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var films []models.Film
	db.DB.Order("created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&films)

	fillCommentCounts(films)
	for i := range films {
		films[i].AverageRating = services.GetCommentAggregates(films[i].ID).AverageRating
		films[i].StreamURL = "" // never on list pages
	}

	data := gin.H{
		"films":       films,
		"page":        page,
		"total_pages": totalPages,
		"total":       total,
	}

	utils.GetCache().Set(cacheKey, data, 1*time.Minute)

	c.JSON(http.StatusOK, data)
}

// Detail returns one film. The stream url only ships to premium viewers when
// the film is paywalled; entitlement itself lives in the external billing
// system, we just honor the flag.
func (h *FilmHandler) Detail(c *gin.Context) {
	fid := c.Param("fid")

	var film models.Film
	if err := db.DB.Where("fid = ?", fid).First(&film).Error; err != nil {
		Error(c, http.StatusNotFound, "film not found")
		return
	}

	db.DB.Model(&film).UpdateColumn("views", gorm.Expr("views + 1"))
	film.Views++

	agg := services.GetCommentAggregates(film.ID)
	film.CommentCount = int(agg.Total)
	film.AverageRating = agg.AverageRating

	if film.IsPremium {
		user := CurrentUser(c)
		if user == nil || !user.IsPremium {
			film.StreamURL = ""
		}
	}

	c.JSON(http.StatusOK, gin.H{"film": film})
}
