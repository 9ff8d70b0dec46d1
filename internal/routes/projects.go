package routes

import (
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterProjectRoutes(r gin.IRouter) {
	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("", handlers.ListProjects)
		projects.POST("", handlers.CreateProject)
		projects.GET("/:id", handlers.GetProject)
		projects.PATCH("/:id", handlers.UpdateProject)
		projects.DELETE("/:id", handlers.DeleteProject)
		projects.POST("/:id/duplicate", handlers.DuplicateProject)
		projects.GET("/:id/progress", handlers.GetProjectProgress)
		projects.POST("/:id/phases/:phase/complete", handlers.CompletePhase)

		projects.GET("/:id/questions", handlers.ListQuestions)
		projects.POST("/:id/questions", handlers.CreateQuestion)
		projects.GET("/:id/activities", handlers.ListActivities)
		projects.POST("/:id/activities", handlers.CreateActivity)
		projects.GET("/:id/resources", handlers.ListResources)
		projects.POST("/:id/resources", handlers.CreateResource)
		projects.GET("/:id/prototypes", handlers.ListPrototypes)
		projects.POST("/:id/prototypes", handlers.CreatePrototype)
		projects.GET("/:id/checklist", handlers.ListChecklist)
		projects.POST("/:id/checklist", handlers.CreateChecklistItem)
	}
}

// RegisterItemRoutes mounts the per-item endpoints of project sub-collections
func RegisterItemRoutes(r gin.IRouter) {
	items := r.Group("")
	items.Use(middleware.AuthMiddleware())
	{
		items.PATCH("/questions/:itemId", handlers.UpdateQuestion)
		items.DELETE("/questions/:itemId", handlers.DeleteQuestion)

		items.PATCH("/activities/:itemId", handlers.UpdateActivity)
		items.DELETE("/activities/:itemId", handlers.DeleteActivity)
		items.POST("/activities/:itemId/toggle", handlers.ToggleActivity)

		items.PATCH("/resources/:itemId", handlers.UpdateResource)
		items.DELETE("/resources/:itemId", handlers.DeleteResource)

		items.PATCH("/prototypes/:itemId", handlers.UpdatePrototype)
		items.DELETE("/prototypes/:itemId", handlers.DeletePrototype)
		items.POST("/prototypes/:itemId/files", handlers.UploadPrototypeFile)

		items.PATCH("/checklist/:itemId", handlers.UpdateChecklistItem)
		items.DELETE("/checklist/:itemId", handlers.DeleteChecklistItem)
		items.POST("/checklist/:itemId/toggle", handlers.ToggleChecklistItem)
	}
}
