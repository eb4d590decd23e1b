package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

type eventRepository struct {
	s *Store
}

// copyEvent detaches the pointer fields so callers never alias stored rows
func copyEvent(e event.Event) *event.Event {
	if e.Capacity != nil {
		c := *e.Capacity
		e.Capacity = &c
	}
	if e.RegistrationDeadline != nil {
		d := *e.RegistrationDeadline
		e.RegistrationDeadline = &d
	}
	return &e
}

func (r *eventRepository) Create(_ context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	defer r.s.lock()()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if _, ok := r.s.st.events[e.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	r.s.st.events[e.ID] = *copyEvent(*e)
	return nil
}

func (r *eventRepository) GetByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	defer r.s.lock()()

	e, ok := r.s.st.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyEvent(e), nil
}

func (r *eventRepository) ListByStages(_ context.Context, stages ...event.Stage) ([]*event.Event, error) {
	defer r.s.lock()()

	out := make([]*event.Event, 0)
	for _, e := range r.s.st.events {
		if slices.Contains(stages, e.Stage) {
			out = append(out, copyEvent(e))
		}
	}
	slices.SortFunc(out, func(a, b *event.Event) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return out, nil
}

func (r *eventRepository) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]*event.Event, error) {
	defer r.s.lock()()

	out := make([]*event.Event, 0)
	for _, e := range r.s.st.events {
		if e.OrganizerID == organizerID {
			out = append(out, copyEvent(e))
		}
	}
	slices.SortFunc(out, func(a, b *event.Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *eventRepository) UpdateStage(_ context.Context, id uuid.UUID, from, to event.Stage) error {
	defer r.s.lock()()

	e, ok := r.s.st.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	if e.Stage != from {
		return repository.ErrStaleState
	}
	e.Stage = to
	e.UpdatedAt = time.Now().UTC()
	r.s.st.events[id] = e
	return nil
}

func (r *eventRepository) SetBannerURL(_ context.Context, id uuid.UUID, url string) error {
	defer r.s.lock()()

	e, ok := r.s.st.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.BannerURL = url
	e.UpdatedAt = time.Now().UTC()
	r.s.st.events[id] = e
	return nil
}

func (r *eventRepository) IncrementRegistrationCount(_ context.Context, id uuid.UUID) error {
	defer r.s.lock()()

	e, ok := r.s.st.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !e.HasSeatFor() {
		return repository.ErrCapacityExceeded
	}
	e.RegistrationCount++
	r.s.st.events[id] = e
	return nil
}
