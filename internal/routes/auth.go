package routes

import (
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.GET("/me", middleware.AuthMiddleware(), handlers.GetMe)
	r.POST("/password", middleware.AuthMiddleware(), handlers.ChangePassword)
}
