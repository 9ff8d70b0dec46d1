package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/middleware"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
)

// NewRouter builds the full HTTP surface. socket may be nil.
func NewRouter(production bool, socket *socketio.Server) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders(production))
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	api.Use(middleware.GeneralRateLimit())
	{
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		RegisterAuthRoutes(auth)

		RegisterProjectRoutes(api)
		RegisterItemRoutes(api)
		RegisterBadgeRoutes(api)
	}

	RegisterFunctionRoutes(r)

	r.GET("/health", health)

	if socket != nil {
		r.GET("/socket.io/*any", handlers.SocketHandler(socket))
		r.POST("/socket.io/*any", handlers.SocketHandler(socket))
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.Status(http.StatusNotFound)
	})

	return r
}

func health(c *gin.Context) {
	dbStatus := "ok"
	redisStatus := "ok"

	if err := database.Ping(); err != nil {
		dbStatus = "error"
	}

	if database.Redis != nil {
		if err := database.Redis.Ping(context.Background()).Err(); err != nil {
			redisStatus = "error"
		}
	} else {
		redisStatus = "not configured"
	}

	status := "ok"
	if dbStatus != "ok" || redisStatus == "error" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"message": "ActiveLearn Hub backend is running",
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
