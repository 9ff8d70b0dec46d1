package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Phase string

const (
	PhaseEngage      Phase = "engage"
	PhaseInvestigate Phase = "investigate"
	PhaseAct         Phase = "act"
)

// Phases lists the CBL phases in cycle order
var Phases = []Phase{PhaseEngage, PhaseInvestigate, PhaseAct}

func (p Phase) Valid() bool {
	switch p {
	case PhaseEngage, PhaseInvestigate, PhaseAct:
		return true
	}
	return false
}

type Project struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	UserID      string    `gorm:"index;type:text;not null" json:"userId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Phase       Phase     `gorm:"type:text;not null;default:'engage'" json:"phase"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Completion flags are written once per transition and never cleared
	EngageCompleted      bool `gorm:"not null;default:false" json:"engageCompleted"`
	InvestigateCompleted bool `gorm:"not null;default:false" json:"investigateCompleted"`
	ActCompleted         bool `gorm:"not null;default:false" json:"actCompleted"`

	BigIdea           string `json:"bigIdea"`
	EssentialQuestion string `json:"essentialQuestion"`
	Challenge         string `json:"challenge"`

	Synthesis      TextFields `gorm:"type:jsonb" json:"synthesis"`
	Solution       TextFields `gorm:"type:jsonb" json:"solution"`
	Implementation TextFields `gorm:"type:jsonb" json:"implementation"`
	Evaluation     TextFields `gorm:"type:jsonb" json:"evaluation"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Phase == "" {
		p.Phase = PhaseEngage
	}
	return
}

// Completed reports the persisted completion flag of a phase
func (p *Project) Completed(phase Phase) bool {
	switch phase {
	case PhaseEngage:
		return p.EngageCompleted
	case PhaseInvestigate:
		return p.InvestigateCompleted
	case PhaseAct:
		return p.ActCompleted
	}
	return false
}
