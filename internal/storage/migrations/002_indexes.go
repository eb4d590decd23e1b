package migrations

import "gorm.io/gorm"

// migration002Up adds lookup indexes the models do not declare
func migration002Up(db *gorm.DB) error {
	return execAll(db, []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_email_lower ON profiles (LOWER(email))",
		"CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles (role)",

		"CREATE INDEX IF NOT EXISTS idx_events_dates ON events (start_date, end_date)",
		"CREATE INDEX IF NOT EXISTS idx_events_end_date ON events (end_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_events_created_at ON events (created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_participation_student_status ON participation (student_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_participation_registered_at ON participation (registered_at DESC)",
	})
}

func migration002Down(db *gorm.DB) error {
	indexes := []string{
		"idx_profiles_email_lower",
		"idx_profiles_role",
		"idx_events_dates",
		"idx_events_end_date",
		"idx_events_created_at",
		"idx_participation_student_status",
		"idx_participation_registered_at",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}
	return nil
}
