package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChecklistItem struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	ProjectID string    `gorm:"index:idx_checklist_project_phase;type:text;not null" json:"projectId"`
	Phase     Phase     `gorm:"index:idx_checklist_project_phase;type:text;not null" json:"phase"`
	Text      string    `gorm:"not null" json:"text"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}

func (c *ChecklistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
