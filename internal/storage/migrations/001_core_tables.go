package migrations

import "gorm.io/gorm"

// migration001Up creates profiles, events and participation from the models
func migration001Up(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func migration001Down(db *gorm.DB) error {
	return execAll(db, []string{
		"DROP TABLE IF EXISTS participation CASCADE",
		"DROP TABLE IF EXISTS events CASCADE",
		"DROP TABLE IF EXISTS profiles CASCADE",
	})
}
