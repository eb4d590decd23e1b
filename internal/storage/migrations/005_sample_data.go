package migrations

import "gorm.io/gorm"

// migration005Up inserts development sample data
func migration005Up(db *gorm.DB) error {
	return execAll(db, []string{
		`INSERT INTO profiles (id, email, full_name, role, department, is_verified, created_at, updated_at) VALUES
            ('550e8400-e29b-41d4-a716-446655440000', 'admin@campus.edu', 'Campus Administrator', 'admin', 'Student Affairs', TRUE, NOW(), NOW()),
            ('550e8400-e29b-41d4-a716-446655440001', 'organizer@campus.edu', 'Olivia Organizer', 'organizer', 'Computer Science', TRUE, NOW(), NOW()),
            ('550e8400-e29b-41d4-a716-446655440002', 'alice@campus.edu', 'Alice Student', 'student', 'Computer Science', TRUE, NOW(), NOW()),
            ('550e8400-e29b-41d4-a716-446655440003', 'bob@campus.edu', 'Bob Student', 'student', 'Mathematics', TRUE, NOW(), NOW())
        ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO events (id, title, description, event_type, stage, organizer_id, venue, capacity,
                registration_count, start_date, end_date, attendance_method, created_at, updated_at) VALUES
            ('660e8400-e29b-41d4-a716-446655440000',
             'Intro to Go Workshop',
             'Hands-on session building a small HTTP service.',
             'workshop', 'published',
             '550e8400-e29b-41d4-a716-446655440001',
             'Engineering Hall 101', 30, 1,
             NOW() + INTERVAL '7 days', NOW() + INTERVAL '7 days 3 hours',
             'qr', NOW(), NOW()),
            ('660e8400-e29b-41d4-a716-446655440001',
             'Spring Hackathon',
             'Twenty-four hours of building.',
             'hackathon', 'completed',
             '550e8400-e29b-41d4-a716-446655440001',
             'Library Commons', NULL, 0,
             NOW() - INTERVAL '30 days', NOW() - INTERVAL '29 days',
             'manual', NOW(), NOW())
        ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO participation (id, student_id, event_id, status, registered_at, attended_at, created_at, updated_at) VALUES
            ('770e8400-e29b-41d4-a716-446655440000',
             '550e8400-e29b-41d4-a716-446655440002', '660e8400-e29b-41d4-a716-446655440000',
             'registered', NOW(), NULL, NOW(), NOW()),
            ('770e8400-e29b-41d4-a716-446655440001',
             '550e8400-e29b-41d4-a716-446655440002', '660e8400-e29b-41d4-a716-446655440001',
             'attended', NOW() - INTERVAL '30 days', NOW() - INTERVAL '30 days', NOW(), NOW())
        ON CONFLICT (student_id, event_id) DO NOTHING`,
	})
}

func migration005Down(db *gorm.DB) error {
	return execAll(db, []string{
		"DELETE FROM participation WHERE id IN ('770e8400-e29b-41d4-a716-446655440000', '770e8400-e29b-41d4-a716-446655440001')",
		"DELETE FROM events WHERE id IN ('660e8400-e29b-41d4-a716-446655440000', '660e8400-e29b-41d4-a716-446655440001')",
		"DELETE FROM profiles WHERE id IN ('550e8400-e29b-41d4-a716-446655440000', '550e8400-e29b-41d4-a716-446655440001', '550e8400-e29b-41d4-a716-446655440002', '550e8400-e29b-41d4-a716-446655440003')",
	})
}
