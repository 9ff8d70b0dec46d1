package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityStatus string

const (
	ActivityPlanned    ActivityStatus = "planned"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
)

func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityPlanned, ActivityInProgress, ActivityCompleted:
		return true
	}
	return false
}

// Next cycles planned -> in_progress -> completed -> planned
func (s ActivityStatus) Next() ActivityStatus {
	switch s {
	case ActivityPlanned:
		return ActivityInProgress
	case ActivityInProgress:
		return ActivityCompleted
	}
	return ActivityPlanned
}

// Activity is an investigation activity planned inside a project
type Activity struct {
	ID          string         `gorm:"primaryKey;type:text" json:"id"`
	ProjectID   string         `gorm:"index;type:text;not null" json:"projectId"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Status      ActivityStatus `gorm:"type:text;not null;default:'planned'" json:"status"`
	Notes       string         `json:"notes"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = ActivityPlanned
	}
	return
}
