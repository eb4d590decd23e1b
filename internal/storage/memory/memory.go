// Package memory is an in-process repository.Store used by tests and local
// development. All repositories share one mutex; a transaction holds it for
// its whole duration and restores a snapshot when fn fails.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

type state struct {
	mu             sync.Mutex
	profiles       map[uuid.UUID]profile.Profile
	events         map[uuid.UUID]event.Event
	participations map[uuid.UUID]participation.Participation
	byKey          map[participation.Key]uuid.UUID
}

type snapshot struct {
	profiles       map[uuid.UUID]profile.Profile
	events         map[uuid.UUID]event.Event
	participations map[uuid.UUID]participation.Participation
	byKey          map[participation.Key]uuid.UUID
}

func (st *state) snapshot() snapshot {
	return snapshot{
		profiles:       maps.Clone(st.profiles),
		events:         maps.Clone(st.events),
		participations: maps.Clone(st.participations),
		byKey:          maps.Clone(st.byKey),
	}
}

func (st *state) restore(s snapshot) {
	st.profiles = s.profiles
	st.events = s.events
	st.participations = s.participations
	st.byKey = s.byKey
}

// Store implements repository.Store in memory
type Store struct {
	st   *state
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		st: &state{
			profiles:       make(map[uuid.UUID]profile.Profile),
			events:         make(map[uuid.UUID]event.Event),
			participations: make(map[uuid.UUID]participation.Participation),
			byKey:          make(map[participation.Key]uuid.UUID),
		},
	}
}

// lock takes the store mutex unless the caller already holds it through a
// transaction. The returned func releases it.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

func (s *Store) Profiles() repository.ProfileRepository {
	return &profileRepository{s: s}
}

func (s *Store) Events() repository.EventRepository {
	return &eventRepository{s: s}
}

func (s *Store) Participations() repository.ParticipationRepository {
	return &participationRepository{s: s}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	snap := s.st.snapshot()
	if err := fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.restore(snap)
		return err
	}
	return nil
}

func (s *Store) Health(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
