package handlers

import (
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type PrototypeInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Fidelity    *models.Fidelity `json:"fidelity"`
	TestResults *string          `json:"testResults"`
	NextSteps   *string          `json:"nextSteps"`
	Files       *models.FileList `json:"files"`
}

func (in PrototypeInput) validate(create bool) string {
	if (create && in.Title == nil) || (in.Title != nil && strings.TrimSpace(*in.Title) == "") {
		return "Title is required"
	}
	if in.Fidelity != nil && !in.Fidelity.Valid() {
		return "Invalid fidelity"
	}
	return ""
}

// ListPrototypes GET /api/projects/:id/prototypes
func ListPrototypes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}
	var prototypes []models.Prototype
	if err := database.DB.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&prototypes).Error; err != nil {
		respondError(c, err, "Failed to fetch prototypes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prototypes": prototypes})
}

// CreatePrototype POST /api/projects/:id/prototypes
func CreatePrototype(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input PrototypeInput
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

	prototype := models.Prototype{ProjectID: project.ID, Title: strings.TrimSpace(*input.Title), Files: models.FileList{}}
	if input.Description != nil {
		prototype.Description = *input.Description
	}
	if input.Fidelity != nil {
		prototype.Fidelity = *input.Fidelity
	}
	if input.TestResults != nil {
		prototype.TestResults = *input.TestResults
	}
	if input.NextSteps != nil {
		prototype.NextSteps = *input.NextSteps
	}
	if input.Files != nil {
		prototype.Files = *input.Files
	}

	ctx := c.Request.Context()
	if err := database.DB.WithContext(ctx).Create(&prototype).Error; err != nil {
		respondError(c, err, "Failed to create prototype")
		return
	}

	var count int64
	if err := database.DB.WithContext(ctx).Model(&models.Prototype{}).Where("project_id = ?", project.ID).Count(&count).Error; err != nil {
		logger.Error().Err(err).Str("project_id", project.ID).Msg("Failed to count prototypes, skipping badge triggers")
		c.JSON(http.StatusCreated, gin.H{"prototype": prototype})
		return
	}
	calls := []triggerCall{{trigger: services.TriggerPrototypeCreated}}
	if count >= 3 {
		calls = append(calls, triggerCall{services.TriggerMultiplePrototypes, services.Payload{services.KeyPrototypesCount: int(count)}})
	}
	c.JSON(http.StatusCreated, merge(gin.H{"prototype": prototype}, fire(c, userID, calls...)))
}

// UpdatePrototype PATCH /api/prototypes/:itemId
func UpdatePrototype(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input PrototypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if msg := input.validate(false); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	prototype, ok := loadPrototype(c, userID)
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
	if input.Fidelity != nil {
		updates["fidelity"] = *input.Fidelity
	}
	if input.TestResults != nil {
		updates["test_results"] = *input.TestResults
	}
	if input.NextSteps != nil {
		updates["next_steps"] = *input.NextSteps
	}
	if input.Files != nil {
		updates["files"] = *input.Files
	}
	if len(updates) > 0 {
		if err := database.DB.WithContext(c.Request.Context()).Model(prototype).Updates(updates).Error; err != nil {
			respondError(c, err, "Failed to update prototype")
			return
		}
	}
	database.DB.First(prototype, "id = ?", prototype.ID)
	c.JSON(http.StatusOK, gin.H{"prototype": prototype})
}

// DeletePrototype DELETE /api/prototypes/:itemId
func DeletePrototype(c *gin.Context) {
	deleteItem(c, &models.Prototype{}, "prototype")
}

func loadPrototype(c *gin.Context, userID string) (*models.Prototype, bool) {
	var prototype models.Prototype
	if err := database.DB.WithContext(c.Request.Context()).First(&prototype, "id = ?", c.Param("itemId")).Error; err != nil {
		respondError(c, err, "Failed to fetch prototype")
		return nil, false
	}
	if _, ok := ownedProject(c, userID, prototype.ProjectID); !ok {
		return nil, false
	}
	return &prototype, true
}
