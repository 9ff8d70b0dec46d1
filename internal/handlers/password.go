package handlers

import (
	"net/http"

	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/ebarcelosf/Activelearn-hub/pkg/utils"
	"github.com/gin-gonic/gin"
)

const temporaryPasswordMessage = "If the email exists, a temporary password has been sent."

type temporaryPasswordInput struct {
	Email string `json:"email"`
}

// SendTemporaryPassword POST /functions/v1/send-temporary-password
// Answers the same way whether or not the account exists.
func SendTemporaryPassword(c *gin.Context) {
	var input temporaryPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil || utils.IsBlank(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if Resetter == nil {
		logger.Error().Msg("Temporary password function called without a resetter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := Resetter.Reset(c.Request.Context(), input.Email); err != nil {
		logger.Error().Err(err).Msg("Temporary password request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": temporaryPasswordMessage,
	})
}
