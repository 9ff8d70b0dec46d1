package handlers

import (
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/gin-gonic/gin"
)

type TriggerInput struct {
	Trigger string           `json:"trigger" binding:"required"`
	Data    services.Payload `json:"data"`
}

// GetBadgeCatalog GET /api/badges/catalog
func GetBadgeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"badges":     Engine.Catalog().All(),
		"thresholds": services.LevelThresholds,
	})
}

// GetMyBadges GET /api/badges/me
func GetMyBadges(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := Engine.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch badges")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// TriggerBadge POST /api/badges/trigger
func TriggerBadge(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input TriggerInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Trigger) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trigger is required"})
		return
	}

	granted, err := Engine.CheckTrigger(c.Request.Context(), userID, input.Trigger, input.Data)
	if err != nil {
		respondError(c, err, "Failed to grant badge")
		return
	}
	if granted == nil {
		granted = []services.BadgeDefinition{}
	}
	c.JSON(http.StatusOK, gin.H{"granted": granted})
}

// GetBadgeNotifications GET /api/badges/notifications
func GetBadgeNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": Engine.Notifier().Pending(userID)})
}

// DismissBadgeNotification DELETE /api/badges/notifications/:badgeId
func DismissBadgeNotification(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if !Engine.Notifier().Dismiss(userID, c.Param("badgeId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}

// DismissAllBadgeNotifications DELETE /api/badges/notifications
func DismissAllBadgeNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	Engine.Notifier().DismissAll(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Notifications dismissed"})
}
