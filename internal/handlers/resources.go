package handlers

import (
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type ResourceInput struct {
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Type        *string   `json:"type"`
	Credibility *string   `json:"credibility"`
	Notes       *string   `json:"notes"`
	Tags        *[]string `json:"tags"`
}

func cleanTags(tags []string) pq.StringArray {
	out := pq.StringArray{}
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ListResources GET /api/projects/:id/resources
func ListResources(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}
	var resources []models.Resource
	if err := database.DB.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&resources).Error; err != nil {
		respondError(c, err, "Failed to fetch resources")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// CreateResource POST /api/projects/:id/resources
func CreateResource(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}

	resource := models.Resource{ProjectID: project.ID, Title: strings.TrimSpace(*input.Title)}
	if input.URL != nil {
		resource.URL = strings.TrimSpace(*input.URL)
	}
	if input.Type != nil {
		resource.Type = *input.Type
	}
	if input.Credibility != nil {
		resource.Credibility = *input.Credibility
	}
	if input.Notes != nil {
		resource.Notes = *input.Notes
	}
	if input.Tags != nil {
		resource.Tags = cleanTags(*input.Tags)
	}

	ctx := c.Request.Context()
	if err := database.DB.WithContext(ctx).Create(&resource).Error; err != nil {
		respondError(c, err, "Failed to create resource")
		return
	}

	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Resource{}).Where("project_id = ?", project.ID).Count(&count).Error; err != nil {
		logger.Error().Err(err).Str("project_id", project.ID).Msg("Failed to count resources, skipping badge triggers")
		c.JSON(http.StatusCreated, gin.H{"resource": resource})
		return
	}
	payload := services.Payload{services.KeyResourcesCount: int(count)}
	calls := []triggerCall{{services.TriggerResourcesAdded, payload}}
	if count >= 3 {
		calls = append(calls, triggerCall{services.TriggerMultipleResources, payload})
	}
	c.JSON(http.StatusCreated, merge(gin.H{"resource": resource}, fire(c, userID, calls...)))
}

// UpdateResource PATCH /api/resources/:itemId
func UpdateResource(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
		return
	}

	ctx := c.Request.Context()
	var resource models.Resource
	if err := database.DB.WithContext(ctx).First(&resource, "id = ?", c.Param("itemId")).Error; err != nil {
		respondError(c, err, "Failed to fetch resource")
		return
	}
	if _, ok := ownedProject(c, userID, resource.ProjectID); !ok {
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.URL != nil {
		updates["url"] = strings.TrimSpace(*input.URL)
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Credibility != nil {
		updates["credibility"] = *input.Credibility
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Tags != nil {
		updates["tags"] = cleanTags(*input.Tags)
	}
	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(&resource).Updates(updates).Error; err != nil {
			respondError(c, err, "Failed to update resource")
			return
		}
	}
	database.DB.WithContext(ctx).First(&resource, "id = ?", resource.ID)
	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// DeleteResource DELETE /api/resources/:itemId
func DeleteResource(c *gin.Context) {
	deleteItem(c, &models.Resource{}, "resource")
}
