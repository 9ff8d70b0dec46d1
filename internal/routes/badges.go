package routes

import (
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterBadgeRoutes(r gin.IRouter) {
	r.GET("/badges/catalog", handlers.GetBadgeCatalog)

	badges := r.Group("/badges")
	badges.Use(middleware.AuthMiddleware())
	{
		badges.GET("/me", handlers.GetMyBadges)
		badges.POST("/trigger", middleware.TriggerRateLimit(), handlers.TriggerBadge)
		badges.GET("/notifications", handlers.GetBadgeNotifications)
		badges.DELETE("/notifications", handlers.DismissAllBadgeNotifications)
		badges.DELETE("/notifications/:badgeId", handlers.DismissBadgeNotification)
	}

	r.GET("/feed", middleware.AuthMiddleware(), handlers.GetFeed)
}
