package migrations

import (
	"gorm.io/gorm"
)

// Migration001DedupeUserBadges removes duplicate grants left by the old
// check-then-insert flow so the (user_id, badge_id) unique index can be built.
// The earliest grant of each pair survives.
func Migration001DedupeUserBadges() Migration {
	return Migration{
		ID:   "001_dedupe_user_badges",
		Name: "Remove duplicate user badges and enforce uniqueness",
		Up: func(db *gorm.DB) error {
			// Fresh databases get the index from AutoMigrate
			if !db.Migrator().HasTable("user_badges") {
				return nil
			}

			dedupe := `
				DELETE FROM user_badges
				WHERE EXISTS (
					SELECT 1 FROM user_badges b
					WHERE b.user_id = user_badges.user_id
					  AND b.badge_id = user_badges.badge_id
					  AND (b.earned_at < user_badges.earned_at
					       OR (b.earned_at = user_badges.earned_at AND b.id < user_badges.id))
				)
			`
			if err := db.Exec(dedupe).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_user_badges_user_badge
				ON user_badges (user_id, badge_id)
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP INDEX IF EXISTS idx_user_badges_user_badge").Error
		},
	}
}
