//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/services"
	"github.com/gravadigital/campus-events-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration ./cmd/api

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	cfg.Server.Environment = "production"
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, sqlDB.Ping(), "Should be able to ping the database")
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()

	store, err := postgres.NewStore(testConfig())
	require.NoError(t, err, "Should be able to connect and migrate")
	defer store.Close()

	organizer := profile.NewProfile(uuid.New(), uuid.NewString()+"@it.campus.edu", "IT Organizer", profile.RoleOrganizer)
	student := profile.NewProfile(uuid.New(), uuid.NewString()+"@it.campus.edu", "IT Student", profile.RoleStudent)
	require.NoError(t, store.Profiles().Create(ctx, organizer))
	require.NoError(t, store.Profiles().Create(ctx, student))

	start := time.Now().Add(24 * time.Hour).UTC()
	capacity := 1
	e := event.NewEvent("Integration Night", organizer.ID, start, start.Add(time.Hour))
	e.Capacity = &capacity
	require.NoError(t, store.Events().Create(ctx, e))

	svc := services.New(store, services.Options{})

	_, err = svc.Registration.Register(ctx, student.ID, e.ID)
	require.NoError(t, err)

	_, err = svc.Registration.Register(ctx, student.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrAlreadyRegistered)

	res, err := svc.Attendance.OrganizerCheckIn(ctx, organizer.ID, e.ID, student.Email)
	require.NoError(t, err)
	assert.Equal(t, services.OutcomeCheckedIn, res.Outcome)

	// the regression trigger rejects a direct downgrade
	err = store.DB().Model(&participation.Participation{}).
		Where("student_id = ? AND event_id = ?", student.ID, e.ID).
		Update("status", participation.StatusRegistered).Error
	assert.Error(t, err)

	list, err := store.Participations().ListCertifiable(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
