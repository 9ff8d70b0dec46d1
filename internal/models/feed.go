package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedEventType string

const (
	FeedProjectCreated FeedEventType = "PROJECT_CREATED"
	FeedPhaseCompleted FeedEventType = "PHASE_COMPLETED"
	FeedAchievement    FeedEventType = "ACHIEVEMENT"
)

// UserActivity is an entry of a user's personal timeline
type UserActivity struct {
	ID        string        `gorm:"primaryKey;type:text" json:"id"`
	Type      FeedEventType `gorm:"type:text;not null" json:"type"`
	ActorID   string        `gorm:"index;not null" json:"actorId"`
	TargetID  string        `gorm:"index" json:"targetId"` // Project ID, badge ID
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}

func (ua *UserActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if ua.ID == "" {
		ua.ID = uuid.New().String()
	}
	if ua.CreatedAt.IsZero() {
		ua.CreatedAt = time.Now()
	}
	return
}
