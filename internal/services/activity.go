package services

import (
	"context"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"gorm.io/gorm"
)

// ActivityLog writes the per-user timeline. Failures are logged, never returned.
type ActivityLog struct {
	db *gorm.DB
}

func NewActivityLog(db *gorm.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

func (a *ActivityLog) Log(ctx context.Context, actorID string, eventType models.FeedEventType, targetID, message string) {
	if a == nil || a.db == nil || actorID == "" {
		return
	}
	entry := models.UserActivity{
		Type:      eventType,
		ActorID:   actorID,
		TargetID:  targetID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := a.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.Warn().Err(err).Str("actor_id", actorID).Str("type", string(eventType)).Msg("Failed to log activity")
	}
}

// Feed lists a user's most recent timeline entries
func (a *ActivityLog) Feed(ctx context.Context, userID string, limit int) ([]models.UserActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []models.UserActivity
	err := a.db.WithContext(ctx).
		Where("actor_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
