package migrations

import "gorm.io/gorm"

// migration003Up adds foreign keys and check constraints. The capacity check
// backs up the conditional registration_count increment.
func migration003Up(db *gorm.DB) error {
	return execAll(db, []string{
		`ALTER TABLE events
            ADD CONSTRAINT fk_events_organizer
            FOREIGN KEY (organizer_id) REFERENCES profiles(id)`,
		`ALTER TABLE participation
            ADD CONSTRAINT fk_participation_student
            FOREIGN KEY (student_id) REFERENCES profiles(id) ON DELETE CASCADE`,
		`ALTER TABLE participation
            ADD CONSTRAINT fk_participation_event
            FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE`,

		`ALTER TABLE profiles
            ADD CONSTRAINT chk_profiles_role
            CHECK (role IN ('student', 'organizer', 'admin'))`,

		`ALTER TABLE events
            ADD CONSTRAINT chk_events_dates
            CHECK (end_date >= start_date)`,
		`ALTER TABLE events
            ADD CONSTRAINT chk_events_capacity_non_negative
            CHECK (capacity IS NULL OR capacity >= 0)`,
		`ALTER TABLE events
            ADD CONSTRAINT chk_events_registration_within_capacity
            CHECK (capacity IS NULL OR registration_count <= capacity)`,
		`ALTER TABLE events
            ADD CONSTRAINT chk_events_stage
            CHECK (stage IN ('draft', 'published', 'registration_open', 'ongoing', 'completed', 'archived'))`,
		`ALTER TABLE events
            ADD CONSTRAINT chk_events_attendance_method
            CHECK (attendance_method IN ('qr', 'manual', 'code', 'gps'))`,

		`ALTER TABLE participation
            ADD CONSTRAINT chk_participation_status
            CHECK (status IN ('registered', 'attended', 'contributed', 'certified'))`,
		`ALTER TABLE participation
            ADD CONSTRAINT chk_participation_attended_at
            CHECK (status = 'registered' OR attended_at IS NOT NULL)`,
	})
}

func migration003Down(db *gorm.DB) error {
	constraints := map[string][]string{
		"participation": {
			"chk_participation_attended_at",
			"chk_participation_status",
			"fk_participation_event",
			"fk_participation_student",
		},
		"events": {
			"chk_events_attendance_method",
			"chk_events_stage",
			"chk_events_registration_within_capacity",
			"chk_events_capacity_non_negative",
			"chk_events_dates",
			"fk_events_organizer",
		},
		"profiles": {
			"chk_profiles_role",
		},
	}

	for _, table := range []string{"participation", "events", "profiles"} {
		for _, name := range constraints[table] {
			if err := db.Exec("ALTER TABLE " + table + " DROP CONSTRAINT IF EXISTS " + name).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
