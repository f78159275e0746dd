package router

import (
	"soular/internal/handlers"
	"soular/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	filmHandler := handlers.NewFilmHandler()
	commentHandler := handlers.NewCommentHandler()
	likeHandler := handlers.NewLikeHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler()
	reportHandler := handlers.NewReportHandler()

	// Public routes
	r.GET("/films", filmHandler.List)                 // film catalog
	r.GET("/films/:fid", filmHandler.Detail)          // film detail
	r.GET("/items/:parent_id", commentHandler.List)   // comments + aggregates for one film
	r.GET("/u/:id", userHandler.Profile)              // public profile

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/items/:parent_id", commentHandler.Create)              // new comment
		authorized.PATCH("/items/:parent_id/:item_id", commentHandler.Update)    // edit own comment
		authorized.DELETE("/items/:parent_id/:item_id", commentHandler.Delete)   // delete own comment
		authorized.POST("/items/:parent_id/:item_id/like", likeHandler.Like)     // like
		authorized.DELETE("/items/:parent_id/:item_id/like", likeHandler.Unlike) // unlike

		authorized.GET("/me", userHandler.Me)                     // own profile
		authorized.PATCH("/profile", userHandler.UpdateSettings)  // typed partial profile update
		authorized.POST("/reports", reportHandler.Create)         // moderation report

		authorized.GET("/notifications", notificationHandler.List)              // notification feed
		authorized.POST("/notifications/:id/read", notificationHandler.Read)    // mark one read
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)     // drop one
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll) // mark all read
	}
}
