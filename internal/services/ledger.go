package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger is the persisted set of (user, badge) grants
type Ledger interface {
	HasEarned(ctx context.Context, userID, badgeID string) (bool, error)
	AllEarned(ctx context.Context, userID string) (map[string]time.Time, error)
	// Insert reports whether a new row was written. A row that already
	// exists is not an error.
	Insert(ctx context.Context, userID, badgeID string) (bool, error)
}

// GormLedger reads through a per-user cache of the user_badges table
type GormLedger struct {
	db    *gorm.DB
	cache database.Cache
	ttl   time.Duration
}

func NewGormLedger(db *gorm.DB, cache database.Cache, ttl time.Duration) *GormLedger {
	if cache == nil {
		cache = database.NopCache{}
	}
	return &GormLedger{db: db, cache: cache, ttl: ttl}
}

func ledgerKey(userID string) string {
	return fmt.Sprintf("badges:%s", userID)
}

func (l *GormLedger) AllEarned(ctx context.Context, userID string) (map[string]time.Time, error) {
	earned := map[string]time.Time{}
	if userID == "" {
		return earned, nil
	}

	key := ledgerKey(userID)
	if err := l.cache.Get(ctx, key, &earned); err == nil {
		return earned, nil
	} else if !errors.Is(err, database.ErrCacheMiss) {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Ledger cache read failed")
	}

	var rows []models.UserBadge
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	earned = make(map[string]time.Time, len(rows))
	for _, r := range rows {
		earned[r.BadgeID] = r.EarnedAt
	}

	if err := l.cache.Set(ctx, key, earned, l.ttl); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Ledger cache write failed")
	}
	return earned, nil
}

func (l *GormLedger) HasEarned(ctx context.Context, userID, badgeID string) (bool, error) {
	earned, err := l.AllEarned(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := earned[badgeID]
	return ok, nil
}

func (l *GormLedger) Insert(ctx context.Context, userID, badgeID string) (bool, error) {
	row := models.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: time.Now()}

	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("insert user badge: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	// Invalidate wholesale rather than patching the cached set
	if err := l.cache.Delete(ctx, ledgerKey(userID)); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Ledger cache invalidation failed")
	}
	return true, nil
}
