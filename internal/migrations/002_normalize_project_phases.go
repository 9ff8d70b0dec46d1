package migrations

import (
	"gorm.io/gorm"
)

// Migration002NormalizeProjectPhases repairs rows written before the phase
// enum and completion flags were NOT NULL
func Migration002NormalizeProjectPhases() Migration {
	return Migration{
		ID:        "002_normalize_project_phases",
		Name:      "Normalize project phase values and completion flags",
		DependsOn: []string{"001_dedupe_user_badges"},
		Up: func(db *gorm.DB) error {
			if !db.Migrator().HasTable("projects") {
				return nil
			}

			if err := db.Exec(`
				UPDATE projects SET phase = 'engage'
				WHERE phase IS NULL OR phase NOT IN ('engage', 'investigate', 'act')
			`).Error; err != nil {
				return err
			}

			for _, col := range []string{"engage_completed", "investigate_completed", "act_completed"} {
				if !db.Migrator().HasColumn("projects", col) {
					continue
				}
				if err := db.Exec("UPDATE projects SET "+col+" = ? WHERE "+col+" IS NULL", false).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
