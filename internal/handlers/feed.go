package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetFeed GET /api/feed?limit=
func GetFeed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := Feed.Feed(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err, "Failed to fetch feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": entries})
}
