package handlers

import (
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/gin-gonic/gin"
)

type ChecklistInput struct {
	Phase *models.Phase `json:"phase"`
	Text  *string       `json:"text"`
	Done  *bool         `json:"done"`
}

// ListChecklist GET /api/projects/:id/checklist?phase=
func ListChecklist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}

	db := database.DB.Where("project_id = ?", project.ID)
	if phase := models.Phase(c.Query("phase")); phase != "" {
		if !phase.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phase"})
			return
		}
		db = db.Where("phase = ?", phase)
	}

	var items []models.ChecklistItem
	if err := db.Order("created_at ASC").Find(&items).Error; err != nil {
		respondError(c, err, "Failed to fetch checklist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateChecklistItem POST /api/projects/:id/checklist
func CreateChecklistItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ChecklistInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Text == nil || strings.TrimSpace(*input.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}
	if input.Phase == nil || !input.Phase.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phase"})
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}

	item := models.ChecklistItem{ProjectID: project.ID, Phase: *input.Phase, Text: strings.TrimSpace(*input.Text)}
	if input.Done != nil {
		item.Done = *input.Done
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		respondError(c, err, "Failed to create checklist item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateChecklistItem PATCH /api/checklist/:itemId
func UpdateChecklistItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ChecklistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Text != nil && strings.TrimSpace(*input.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text cannot be empty"})
		return
	}
	if input.Phase != nil && !input.Phase.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phase"})
		return
	}

	item, ok := loadChecklistItem(c, userID)
	if !ok {
		return
	}
	updates := map[string]interface{}{}
	if input.Text != nil {
		updates["text"] = strings.TrimSpace(*input.Text)
	}
	if input.Phase != nil {
		updates["phase"] = *input.Phase
	}
	if input.Done != nil {
		updates["done"] = *input.Done
	}
	if len(updates) > 0 {
		if err := database.DB.WithContext(c.Request.Context()).Model(item).Updates(updates).Error; err != nil {
			respondError(c, err, "Failed to update checklist item")
			return
		}
	}
	if err := database.DB.WithContext(c.Request.Context()).First(item, "id = ?", item.ID).Error; err != nil {
		respondError(c, err, "Failed to fetch checklist item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ToggleChecklistItem POST /api/checklist/:itemId/toggle
func ToggleChecklistItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	item, ok := loadChecklistItem(c, userID)
	if !ok {
		return
	}
	next := !item.Done
	if err := database.DB.WithContext(c.Request.Context()).Model(item).Update("done", next).Error; err != nil {
		respondError(c, err, "Failed to update checklist item")
		return
	}
	item.Done = next
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteChecklistItem DELETE /api/checklist/:itemId
func DeleteChecklistItem(c *gin.Context) {
	deleteItem(c, &models.ChecklistItem{}, "checklist item")
}

func loadChecklistItem(c *gin.Context, userID string) (*models.ChecklistItem, bool) {
	var item models.ChecklistItem
	if err := database.DB.WithContext(c.Request.Context()).First(&item, "id = ?", c.Param("itemId")).Error; err != nil {
		respondError(c, err, "Failed to fetch checklist item")
		return nil, false
	}
	if _, ok := ownedProject(c, userID, item.ProjectID); !ok {
		return nil, false
	}
	return &item, true
}
