package migrations

import "gorm.io/gorm"

// migration004Up installs the status-regression guard and updated_at maintenance
func migration004Up(db *gorm.DB) error {
	return execAll(db, []string{
		`CREATE OR REPLACE FUNCTION participation_status_rank(s TEXT)
        RETURNS INTEGER AS $$
            SELECT CASE s
                WHEN 'registered' THEN 1
                WHEN 'attended' THEN 2
                WHEN 'contributed' THEN 3
                WHEN 'certified' THEN 4
                ELSE 0
            END
        $$ LANGUAGE sql IMMUTABLE`,

		`CREATE OR REPLACE FUNCTION prevent_participation_regression()
        RETURNS TRIGGER AS $$
        BEGIN
            IF participation_status_rank(NEW.status) < participation_status_rank(OLD.status) THEN
                RAISE EXCEPTION 'participation status cannot move from % to %', OLD.status, NEW.status
                    USING ERRCODE = 'check_violation';
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE OR REPLACE FUNCTION set_updated_at()
        RETURNS TRIGGER AS $$
        BEGIN
            NEW.updated_at := CURRENT_TIMESTAMP;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE TRIGGER trg_participation_no_regression
            BEFORE UPDATE OF status ON participation
            FOR EACH ROW EXECUTE FUNCTION prevent_participation_regression()`,

		`CREATE TRIGGER trg_profiles_updated_at
            BEFORE UPDATE ON profiles
            FOR EACH ROW EXECUTE FUNCTION set_updated_at()`,
		`CREATE TRIGGER trg_events_updated_at
            BEFORE UPDATE ON events
            FOR EACH ROW EXECUTE FUNCTION set_updated_at()`,
		`CREATE TRIGGER trg_participation_updated_at
            BEFORE UPDATE ON participation
            FOR EACH ROW EXECUTE FUNCTION set_updated_at()`,
	})
}

func migration004Down(db *gorm.DB) error {
	return execAll(db, []string{
		"DROP TRIGGER IF EXISTS trg_participation_updated_at ON participation",
		"DROP TRIGGER IF EXISTS trg_events_updated_at ON events",
		"DROP TRIGGER IF EXISTS trg_profiles_updated_at ON profiles",
		"DROP TRIGGER IF EXISTS trg_participation_no_regression ON participation",
		"DROP FUNCTION IF EXISTS set_updated_at()",
		"DROP FUNCTION IF EXISTS prevent_participation_regression()",
		"DROP FUNCTION IF EXISTS participation_status_rank(TEXT)",
	})
}
