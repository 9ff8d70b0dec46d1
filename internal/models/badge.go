package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBadge is one ledger row: a badge a user has earned.
// The composite unique index is what keeps grants at most once per pair.
type UserBadge struct {
	ID       string    `gorm:"primaryKey;type:text" json:"id"`
	UserID   string    `gorm:"uniqueIndex:idx_user_badges_user_badge;type:text;not null" json:"userId"`
	BadgeID  string    `gorm:"uniqueIndex:idx_user_badges_user_badge;type:text;not null" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

func (ub *UserBadge) BeforeCreate(tx *gorm.DB) (err error) {
	if ub.ID == "" {
		ub.ID = uuid.New().String()
	}
	if ub.EarnedAt.IsZero() {
		ub.EarnedAt = time.Now()
	}
	return
}
