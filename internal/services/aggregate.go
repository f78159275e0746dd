package services

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"soular/internal/db"
	"soular/internal/models"
	"soular/internal/utils"
)

// CommentAggregates holds the per-film numbers the list endpoint returns
// alongside the comments themselves.
type CommentAggregates struct {
	Total         int64   `json:"total"`
	AverageRating float64 `json:"average_rating"`
}

func aggregateCacheKey(filmID uint) string {
	return fmt.Sprintf("comments:agg:%d", filmID)
}

// GetCommentAggregates returns total comment count and the mean of all
// non-null ratings (rounded to 1 decimal) for one film. Results are cached
// briefly; every write path must call InvalidateCommentAggregates.
func GetCommentAggregates(filmID uint) CommentAggregates {
	cacheKey := aggregateCacheKey(filmID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if agg, ok := cached.(CommentAggregates); ok {
			return agg
		}
	}

	var agg CommentAggregates
	db.DB.Model(&models.Comment{}).Where("film_id = ?", filmID).Count(&agg.Total)

	var avg sql.NullFloat64
	db.DB.Model(&models.Comment{}).
		Select("AVG(rating)").
		Where("film_id = ? AND rating IS NOT NULL", filmID).
		Scan(&avg)
	if avg.Valid {
		agg.AverageRating = RoundRating(avg.Float64)
	}

	utils.GetCache().Set(cacheKey, agg, 1*time.Minute)
	return agg
}

// InvalidateCommentAggregates drops the cached aggregates after any
// create/update/delete on the film's comments.
func InvalidateCommentAggregates(filmID uint) {
	utils.GetCache().Delete(aggregateCacheKey(filmID))
}

// RoundRating rounds an average rating to 1 decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
