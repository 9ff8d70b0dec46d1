package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CreateProjectInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateProjectInput leaves a field untouched when it is absent
type UpdateProjectInput struct {
	Title             *string            `json:"title"`
	Description       *string            `json:"description"`
	Phase             *models.Phase      `json:"phase"`
	BigIdea           *string            `json:"bigIdea"`
	EssentialQuestion *string            `json:"essentialQuestion"`
	Challenge         *string            `json:"challenge"`
	Synthesis         *models.TextFields `json:"synthesis"`
	Solution          *models.TextFields `json:"solution"`
	Implementation    *models.TextFields `json:"implementation"`
	Evaluation        *models.TextFields `json:"evaluation"`
}

// ListProjects GET /api/projects?q=
func ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projects, err := Projects.List(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to fetch projects")
		return
	}

	items := make([]gin.H, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		items = append(items, gin.H{
			"project":  p,
			"progress": services.ProjectProgress(services.FlagsOf(p)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

// CreateProject POST /api/projects
func CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	project := models.Project{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Phase:       models.PhaseEngage,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&project).Error; err != nil {
		respondError(c, err, "Failed to create project")
		return
	}

	Feed.Log(c.Request.Context(), userID, models.FeedProjectCreated, project.ID, fmt.Sprintf("Criou o projeto %s", project.Title))
	logger.Info().Str("user_id", userID).Str("project_id", project.ID).Msg("Project created")

	resp := fire(c, userID, triggerCall{trigger: services.TriggerProjectCreated, payload: services.Payload{services.KeyProjectID: project.ID}})
	c.JSON(http.StatusCreated, merge(gin.H{"project": project}, resp))
}

// GetProject GET /api/projects/:id
func GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, err := Projects.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project":  project,
		"progress": services.ProjectProgress(services.FlagsOf(project)),
	})
}

// UpdateProject PATCH /api/projects/:id
func UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
		return
	}
	if input.Phase != nil && !input.Phase.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phase"})
		return
	}

	ctx := c.Request.Context()
	project, err := Projects.Get(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	updates := map[string]interface{}{}
	var calls []triggerCall
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Phase != nil && *input.Phase != project.Phase {
		updates["phase"] = *input.Phase
		if *input.Phase == models.PhaseInvestigate {
			calls = append(calls, triggerCall{trigger: services.TriggerInvestigateStarted})
		}
	}
	text := []struct {
		value   *string
		column  string
		trigger string
	}{
		{input.BigIdea, "big_idea", services.TriggerBigIdeaCreated},
		{input.EssentialQuestion, "essential_question", services.TriggerEssentialQuestionCreated},
		{input.Challenge, "challenge", services.TriggerChallengeDefined},
	}
	for _, f := range text {
		if f.value == nil {
			continue
		}
		updates[f.column] = *f.value
		if strings.TrimSpace(*f.value) != "" {
			calls = append(calls, triggerCall{trigger: f.trigger})
		}
	}
	blobs := []struct {
		value  *models.TextFields
		column string
	}{
		{input.Synthesis, "synthesis"},
		{input.Solution, "solution"},
		{input.Implementation, "implementation"},
		{input.Evaluation, "evaluation"},
	}
	for _, b := range blobs {
		if b.value != nil {
			updates[b.column] = *b.value
		}
	}

	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			respondError(c, err, "Failed to update project")
			return
		}
	}

	project, err = Projects.Get(ctx, userID, project.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, merge(gin.H{"project": project}, fire(c, userID, calls...)))
}

// DeleteProject DELETE /api/projects/:id
func DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := Projects.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// DuplicateProject POST /api/projects/:id/duplicate
func DuplicateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, err := Projects.Duplicate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to duplicate project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// CompletePhase POST /api/projects/:id/phases/:phase/complete
func CompletePhase(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := Tracker.CompletePhase(c.Request.Context(), userID, c.Param("id"), models.Phase(c.Param("phase")))
	if err != nil {
		respondError(c, err, "Failed to complete phase")
		return
	}
	if result.Granted == nil {
		result.Granted = []services.BadgeDefinition{}
	}
	c.JSON(http.StatusOK, result)
}

// GetProjectProgress GET /api/projects/:id/progress
func GetProjectProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	progress, err := Tracker.Progress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to compute progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}
