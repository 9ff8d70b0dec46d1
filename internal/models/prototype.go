package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Fidelity string

const (
	FidelityLow    Fidelity = "low"
	FidelityMedium Fidelity = "medium"
	FidelityHigh   Fidelity = "high"
)

func (f Fidelity) Valid() bool {
	switch f {
	case FidelityLow, FidelityMedium, FidelityHigh:
		return true
	}
	return false
}

type Prototype struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	ProjectID   string    `gorm:"index;type:text;not null" json:"projectId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Fidelity    Fidelity  `gorm:"type:text;not null;default:'low'" json:"fidelity"`
	TestResults string    `json:"testResults"`
	NextSteps   string    `json:"nextSteps"`
	Files       FileList  `gorm:"type:jsonb" json:"files"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Prototype) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Fidelity == "" {
		p.Fidelity = FidelityLow
	}
	return
}
