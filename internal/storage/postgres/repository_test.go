package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/storage/postgres"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

func seedProfile(t *testing.T, s *postgres.Store, email string, role profile.Role) *profile.Profile {
	t.Helper()
	p := profile.NewProfile(uuid.New(), email, "Test "+string(role), role)
	require.NoError(t, s.Profiles().Create(context.Background(), p))
	return p
}

func seedEvent(t *testing.T, s *postgres.Store, organizerID uuid.UUID, capacity *int, end time.Time) *event.Event {
	t.Helper()
	e := event.NewEvent("Event "+end.Format("2006-01-02"), organizerID, end.Add(-2*time.Hour), end)
	e.Capacity = capacity
	require.NoError(t, s.Events().Create(context.Background(), e))
	return e
}

func TestProfileRepository_EmailLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	p := seedProfile(t, s, "Ada.Lovelace@Campus.edu", profile.RoleStudent)

	found, err := s.Profiles().GetByEmail(ctx, "  ADA.LOVELACE@campus.EDU ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = s.Profiles().GetByEmail(ctx, "nobody@campus.edu")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seedProfile(t, s, "dup@campus.edu", profile.RoleStudent)

	err := s.Profiles().Create(ctx, profile.NewProfile(uuid.New(), "DUP@campus.edu", "Other", profile.RoleStudent))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestProfileRepository_Update(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	p := seedProfile(t, s, "edit@campus.edu", profile.RoleStudent)

	p.FullName = "Edited Name"
	p.Department = "Physics"
	require.NoError(t, s.Profiles().Update(ctx, p))

	stored, err := s.Profiles().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited Name", stored.FullName)
	assert.Equal(t, "Physics", stored.Department)

	missing := profile.NewProfile(uuid.New(), "ghost@campus.edu", "Ghost", profile.RoleStudent)
	assert.ErrorIs(t, s.Profiles().Update(ctx, missing), repository.ErrNotFound)
}

func TestEventRepository_IncrementRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	org := seedProfile(t, s, "org@campus.edu", profile.RoleOrganizer)
	capacity := 2
	e := seedEvent(t, s, org.ID, &capacity, time.Now().Add(48*time.Hour).UTC())

	require.NoError(t, s.Events().IncrementRegistrationCount(ctx, e.ID))
	require.NoError(t, s.Events().IncrementRegistrationCount(ctx, e.ID))
	assert.ErrorIs(t, s.Events().IncrementRegistrationCount(ctx, e.ID), repository.ErrCapacityExceeded)
	assert.ErrorIs(t, s.Events().IncrementRegistrationCount(ctx, uuid.New()), repository.ErrNotFound)

	stored, err := s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.RegistrationCount)
}

func TestEventRepository_UnlimitedCapacity(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	org := seedProfile(t, s, "org@campus.edu", profile.RoleOrganizer)
	e := seedEvent(t, s, org.ID, nil, time.Now().Add(48*time.Hour).UTC())

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Events().IncrementRegistrationCount(ctx, e.ID))
	}
}

func TestEventRepository_UpdateStageIsConditional(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	org := seedProfile(t, s, "org@campus.edu", profile.RoleOrganizer)
	e := seedEvent(t, s, org.ID, nil, time.Now().Add(48*time.Hour).UTC())

	require.NoError(t, s.Events().UpdateStage(ctx, e.ID, event.StagePublished, event.StageRegistrationOpen))
	assert.ErrorIs(t, s.Events().UpdateStage(ctx, e.ID, event.StagePublished, event.StageOngoing), repository.ErrStaleState)
	assert.ErrorIs(t, s.Events().UpdateStage(ctx, uuid.New(), event.StagePublished, event.StageOngoing), repository.ErrNotFound)

	open, err := s.Events().ListByStages(ctx, event.StagePublished, event.StageRegistrationOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, event.StageRegistrationOpen, open[0].Stage)
}

func TestParticipationRepository_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	studentID, eventID := uuid.New(), uuid.New()

	require.NoError(t, s.Participations().Insert(ctx, participation.NewRegistration(studentID, eventID, time.Now().UTC())))
	err := s.Participations().Insert(ctx, participation.NewRegistration(studentID, eventID, time.Now().UTC()))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestParticipationRepository_AdvanceIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	p := participation.NewRegistration(uuid.New(), uuid.New(), time.Now().UTC())
	require.NoError(t, s.Participations().Insert(ctx, p))

	at := time.Now().UTC()
	changed, err := s.Participations().Advance(ctx, p.Key(), participation.StatusAttended, at, repository.Patch{})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Participations().Advance(ctx, p.Key(), participation.StatusAttended, at.Add(time.Hour), repository.Patch{})
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := s.Participations().GetByKey(ctx, p.StudentID, p.EventID)
	require.NoError(t, err)
	assert.Equal(t, participation.StatusAttended, stored.Status)
	require.NotNil(t, stored.AttendedAt)
	assert.WithinDuration(t, at, *stored.AttendedAt, time.Second)
}

func TestParticipationRepository_UpsertAdvance(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	eventID := uuid.New()

	t.Run("walk-in creates an attended row", func(t *testing.T) {
		res, err := s.Participations().UpsertAdvance(ctx, participation.NewWalkIn(uuid.New(), eventID, time.Now().UTC()))
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.True(t, res.Changed)
		assert.Equal(t, participation.StatusAttended, res.Participation.Status)
	})

	t.Run("registered row is raised to attended", func(t *testing.T) {
		studentID := uuid.New()
		reg := participation.NewRegistration(studentID, eventID, time.Now().UTC())
		require.NoError(t, s.Participations().Insert(ctx, reg))

		res, err := s.Participations().UpsertAdvance(ctx, participation.NewWalkIn(studentID, eventID, time.Now().UTC()))
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.True(t, res.Changed)
		assert.Equal(t, reg.ID, res.Participation.ID)
		assert.Equal(t, participation.StatusAttended, res.Participation.Status)
	})

	t.Run("certified row is never lowered", func(t *testing.T) {
		studentID := uuid.New()
		p := participation.NewWalkIn(studentID, eventID, time.Now().UTC())
		p.Stamp(participation.StatusCertified, time.Now().UTC())
		require.NoError(t, s.Participations().Insert(ctx, p))

		res, err := s.Participations().UpsertAdvance(ctx, participation.NewWalkIn(studentID, eventID, time.Now().UTC()))
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.False(t, res.Changed)
		assert.Equal(t, participation.StatusCertified, res.Participation.Status)
	})
}

func TestParticipationRepository_ListCertifiable(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	org := seedProfile(t, s, "org@campus.edu", profile.RoleOrganizer)
	student := seedProfile(t, s, "student@campus.edu", profile.RoleStudent)

	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	older := seedEvent(t, s, org.ID, nil, base)
	newer := seedEvent(t, s, org.ID, nil, base.AddDate(0, 1, 0))
	skipped := seedEvent(t, s, org.ID, nil, base.AddDate(0, 2, 0))

	for _, e := range []*event.Event{older, newer} {
		_, err := s.Participations().UpsertAdvance(ctx, participation.NewWalkIn(student.ID, e.ID, time.Now().UTC()))
		require.NoError(t, err)
	}
	require.NoError(t, s.Participations().Insert(ctx, participation.NewRegistration(student.ID, skipped.ID, time.Now().UTC())))

	rows, err := s.Participations().ListCertifiable(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].EventID)
	assert.Equal(t, newer.Title, rows[0].EventTitle)
	assert.Equal(t, older.ID, rows[1].EventID)
	assert.True(t, rows[1].EventEndDate.Equal(base))

	roster, err := s.Participations().ListByEvent(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, student.Email, roster[0].Student.Email)

	dashboard, err := s.Participations().ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, dashboard, 3)
}

func TestStore_WithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	org := seedProfile(t, s, "org@campus.edu", profile.RoleOrganizer)
	e := seedEvent(t, s, org.ID, nil, time.Now().Add(48*time.Hour).UTC())
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Participations().Insert(ctx, participation.NewRegistration(uuid.New(), e.ID, time.Now().UTC())))
		require.NoError(t, tx.Events().IncrementRegistrationCount(ctx, e.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RegistrationCount)

	roster, err := s.Participations().ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, roster)
}
