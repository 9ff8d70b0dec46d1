package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/ebarcelosf/Activelearn-hub/pkg/utils"
	"github.com/gin-gonic/gin"
)

const maxPrototypeFileSize = 10 << 20

// UploadPrototypeFile POST /api/prototypes/:itemId/files
func UploadPrototypeFile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if Files == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
		return
	}

	prototype, ok := loadPrototype(c, userID)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid file field found"})
		return
	}
	defer file.Close()

	if header.Size > maxPrototypeFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is too large"})
		return
	}

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("prototypes/%s/%s%s", prototype.ID, utils.GenerateID(), ext)

	url, err := Files.Put(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		logger.Error().Err(err).Str("prototype_id", prototype.ID).Msg("Prototype upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	files := append(prototype.Files, models.PrototypeFile{Name: header.Filename, URL: url})
	if err := database.DB.WithContext(c.Request.Context()).Model(prototype).Update("files", files).Error; err != nil {
		respondError(c, err, "Failed to attach file")
		return
	}
	prototype.Files = files

	c.JSON(http.StatusOK, gin.H{
		"prototype": prototype,
		"url":       url,
		"key":       key,
		"size":      header.Size,
	})
}
