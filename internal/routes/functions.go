package routes

import (
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterFunctionRoutes mounts the public functions outside /api, each with
// permissive CORS instead of the front-end policy
func RegisterFunctionRoutes(r gin.IRouter) {
	fn := r.Group("/functions/v1")
	fn.Use(middleware.PermissiveCORS())
	{
		fn.OPTIONS("/send-temporary-password", func(c *gin.Context) {})
		fn.POST("/send-temporary-password", middleware.PasswordRateLimit(), handlers.SendTemporaryPassword)
	}
}
