package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/ebarcelosf/Activelearn-hub/pkg/utils"
	"github.com/gin-gonic/gin"
)

type QuestionInput struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// ownedProject loads :id and renders 404 unless the caller owns it
func ownedProject(c *gin.Context, userID, projectID string) (*models.Project, bool) {
	if !utils.IsUUID(projectID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return nil, false
	}
	project, err := Projects.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, err, "Failed to fetch project")
		return nil, false
	}
	return project, true
}

// answeredTriggers mirrors the 1/3/5 answered question milestones
func answeredTriggers(ctx context.Context, projectID string) []triggerCall {
	var answered int64
	if err := database.DB.WithContext(ctx).Model(&models.GuidingQuestion{}).
		Where("project_id = ? AND TRIM(COALESCE(answer, '')) <> ''", projectID).
		Count(&answered).Error; err != nil {
		logger.Error().Err(err).Str("project_id", projectID).Msg("Failed to count answered questions, skipping badge triggers")
		return nil
	}

	payload := services.Payload{services.KeyQuestionsAnswered: int(answered)}
	var calls []triggerCall
	if answered >= 1 {
		calls = append(calls, triggerCall{services.TriggerFirstQuestionAnswered, payload})
	}
	if answered >= 3 {
		calls = append(calls, triggerCall{services.TriggerQuestionsAnswered3, payload})
	}
	if answered >= 5 {
		calls = append(calls, triggerCall{services.TriggerQuestionsAnswered5, payload})
	}
	return calls
}

// ListQuestions GET /api/projects/:id/questions
func ListQuestions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}
	var questions []models.GuidingQuestion
	if err := database.DB.Where("project_id = ?", project.ID).Order("created_at ASC").Find(&questions).Error; err != nil {
		respondError(c, err, "Failed to fetch questions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// CreateQuestion POST /api/projects/:id/questions
func CreateQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Question == nil || strings.TrimSpace(*input.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}
	project, ok := ownedProject(c, userID, c.Param("id"))
	if !ok {
		return
	}

	question := models.GuidingQuestion{ProjectID: project.ID, Question: strings.TrimSpace(*input.Question)}
	if input.Answer != nil {
		question.Answer = *input.Answer
	}
	ctx := c.Request.Context()
	if err := database.DB.WithContext(ctx).Create(&question).Error; err != nil {
		respondError(c, err, "Failed to create question")
		return
	}
	c.JSON(http.StatusCreated, merge(gin.H{"question": question}, fire(c, userID, answeredTriggers(ctx, project.ID)...)))
}

// UpdateQuestion PATCH /api/questions/:itemId
func UpdateQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Question != nil && strings.TrimSpace(*input.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question cannot be empty"})
		return
	}

	ctx := c.Request.Context()
	var question models.GuidingQuestion
	if err := database.DB.WithContext(ctx).First(&question, "id = ?", c.Param("itemId")).Error; err != nil {
		respondError(c, err, "Failed to fetch question")
		return
	}
	if _, ok := ownedProject(c, userID, question.ProjectID); !ok {
		return
	}

	updates := map[string]interface{}{}
	if input.Question != nil {
		updates["question"] = strings.TrimSpace(*input.Question)
	}
	if input.Answer != nil {
		updates["answer"] = *input.Answer
	}
	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(&question).Updates(updates).Error; err != nil {
			respondError(c, err, "Failed to update question")
			return
		}
	}
	if err := database.DB.WithContext(ctx).First(&question, "id = ?", question.ID).Error; err != nil {
		respondError(c, err, "Failed to fetch question")
		return
	}

	var calls []triggerCall
	if input.Answer != nil {
		calls = answeredTriggers(ctx, question.ProjectID)
	}
	c.JSON(http.StatusOK, merge(gin.H{"question": question}, fire(c, userID, calls...)))
}

// DeleteQuestion DELETE /api/questions/:itemId
func DeleteQuestion(c *gin.Context) {
	deleteItem(c, &models.GuidingQuestion{}, "question")
}

// deleteItem removes a project sub-entity by :itemId after an ownership check
func deleteItem(c *gin.Context, model interface{}, name string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var ref struct{ ProjectID string }
	err := database.DB.WithContext(ctx).Model(model).Select("project_id").Where("id = ?", c.Param("itemId")).Take(&ref).Error
	if err != nil {
		respondError(c, err, "Failed to fetch "+name)
		return
	}
	if _, ok := ownedProject(c, userID, ref.ProjectID); !ok {
		return
	}
	if err := database.DB.WithContext(ctx).Where("id = ?", c.Param("itemId")).Delete(model).Error; err != nil {
		respondError(c, err, "Failed to delete "+name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": strings.ToUpper(name[:1]) + name[1:] + " deleted"})
}
