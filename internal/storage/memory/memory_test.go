package memory

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
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

func newEvent(t *testing.T, s *Store, capacity *int) *event.Event {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	e := event.NewEvent("Go Workshop", uuid.New(), start, start.Add(2*time.Hour))
	e.Capacity = capacity
	require.NoError(t, s.Events().Create(context.Background(), e))
	return e
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := newEvent(t, s, nil)
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(tx repository.Store) error {
		p := participation.NewRegistration(uuid.New(), e.ID, time.Now())
		require.NoError(t, tx.Participations().Insert(ctx, p))
		require.NoError(t, tx.Events().IncrementRegistrationCount(ctx, e.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RegistrationCount)

	list, err := s.Participations().ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIncrementRegistrationCount_Capacity(t *testing.T) {
	ctx := context.Background()
	s := New()
	capacity := 1
	e := newEvent(t, s, &capacity)

	require.NoError(t, s.Events().IncrementRegistrationCount(ctx, e.ID))
	assert.ErrorIs(t, s.Events().IncrementRegistrationCount(ctx, e.ID), repository.ErrCapacityExceeded)
	assert.ErrorIs(t, s.Events().IncrementRegistrationCount(ctx, uuid.New()), repository.ErrNotFound)
}

func TestInsert_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := New()
	studentID, eventID := uuid.New(), uuid.New()

	require.NoError(t, s.Participations().Insert(ctx, participation.NewRegistration(studentID, eventID, time.Now())))
	err := s.Participations().Insert(ctx, participation.NewRegistration(studentID, eventID, time.Now()))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUpsertAdvance(t *testing.T) {
	ctx := context.Background()
	s := New()
	studentID, eventID := uuid.New(), uuid.New()
	repo := s.Participations()

	res, err := repo.UpsertAdvance(ctx, participation.NewWalkIn(studentID, eventID, time.Now()))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, participation.StatusAttended, res.Participation.Status)

	res, err = repo.UpsertAdvance(ctx, participation.NewWalkIn(studentID, eventID, time.Now()))
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.False(t, res.Changed)

	otherStudent := uuid.New()
	require.NoError(t, repo.Insert(ctx, participation.NewRegistration(otherStudent, eventID, time.Now())))
	res, err = repo.UpsertAdvance(ctx, participation.NewWalkIn(otherStudent, eventID, time.Now()))
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.True(t, res.Changed)
	assert.NotNil(t, res.Participation.AttendedAt)
}

func TestAdvance_RequiresPredecessor(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := participation.NewRegistration(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, s.Participations().Insert(ctx, p))

	changed, err := s.Participations().Advance(ctx, p.Key(), participation.StatusContributed, time.Now(), repository.Patch{})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.Participations().Advance(ctx, p.Key(), participation.StatusAttended, time.Now(), repository.Patch{})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Participations().Advance(ctx, p.Key(), participation.StatusAttended, time.Now(), repository.Patch{})
	require.NoError(t, err)
	assert.False(t, changed)
}
