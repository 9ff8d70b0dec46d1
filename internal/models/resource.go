package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Resource struct {
	ID          string         `gorm:"primaryKey;type:text" json:"id"`
	ProjectID   string         `gorm:"index;type:text;not null" json:"projectId"`
	Title       string         `gorm:"not null" json:"title"`
	URL         string         `json:"url"`
	Type        string         `json:"type"`
	Credibility string         `json:"credibility"`
	Notes       string         `json:"notes"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"` // Postgres Array
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Tags == nil {
		r.Tags = pq.StringArray{}
	}
	return
}
