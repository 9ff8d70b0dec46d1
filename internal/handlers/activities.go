package handlers

import (
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/gin-gonic/gin"
)

type ActivityInput struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Type        *string                `json:"type"`
	Status      *models.ActivityStatus `json:"status"`
	Notes       *string                `json:"notes"`
}

func (in ActivityInput) validate(create bool) string {
	if (create && in.Title == nil) || (in.Title != nil && strings.TrimSpace(*in.Title) == "") {
		return "Title is required"
	}
	if in.Status != nil && !in.Status.Valid() {
		return "Invalid status"
	}
	return ""
}

// ListActivities GET /api/projects/:id/activities
func ListActivities(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}
	var activities []models.Activity
	if err := database.DB.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&activities).Error; err != nil {
		respondError(c, err, "Failed to fetch activities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// CreateActivity POST /api/projects/:id/activities
func CreateActivity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if msg := input.validate(true); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}

	activity := models.Activity{ProjectID: project.ID, Title: strings.TrimSpace(*input.Title)}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.Type != nil {
		activity.Type = *input.Type
	}
	if input.Status != nil {
		activity.Status = *input.Status
	}
	if input.Notes != nil {
		activity.Notes = *input.Notes
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&activity).Error; err != nil {
		respondError(c, err, "Failed to create activity")
		return
	}
	resp := fire(c, userID, triggerCall{trigger: services.TriggerActivityCreated})
	c.JSON(http.StatusCreated, merge(gin.H{"activity": activity}, resp))
}

// UpdateActivity PATCH /api/activities/:itemId
func UpdateActivity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if msg := input.validate(false); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	activity, ok := loadActivity(c, userID)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) > 0 {
		if err := database.DB.WithContext(c.Request.Context()).Model(activity).Updates(updates).Error; err != nil {
			respondError(c, err, "Failed to update activity")
			return
		}
	}
	database.DB.First(activity, "id = ?", activity.ID)
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// ToggleActivity POST /api/activities/:itemId/toggle cycles the status
func ToggleActivity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	activity, ok := loadActivity(c, userID)
	if !ok {
		return
	}
	next := activity.Status.Next()
	if err := database.DB.WithContext(c.Request.Context()).Model(activity).Update("status", next).Error; err != nil {
		respondError(c, err, "Failed to update activity")
		return
	}
	activity.Status = next
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// DeleteActivity DELETE /api/activities/:itemId
func DeleteActivity(c *gin.Context) {
	deleteItem(c, &models.Activity{}, "activity")
}

func loadActivity(c *gin.Context, userID string) (*models.Activity, bool) {
	var activity models.Activity
	if err := database.DB.WithContext(c.Request.Context()).First(&activity, "id = ?", c.Param("itemId")).Error; err != nil {
		respondError(c, err, "Failed to fetch activity")
		return nil, false
	}
	if _, ok := ownedProject(c, userID, activity.ProjectID); !ok {
		return nil, false
	}
	return &activity, true
}
