package models

// All lists every table model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&GuidingQuestion{},
		&Activity{},
		&Resource{},
		&Prototype{},
		&ChecklistItem{},
		&UserBadge{},
		&UserActivity{},
	}
}
