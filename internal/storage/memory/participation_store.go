package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

type participationRepository struct {
	s *Store
}

func (r *participationRepository) GetByKey(_ context.Context, studentID, eventID uuid.UUID) (*participation.Participation, error) {
	defer r.s.lock()()

	return r.getByKey(participation.Key{StudentID: studentID, EventID: eventID})
}

// getByKey expects the lock to be held
func (r *participationRepository) getByKey(key participation.Key) (*participation.Participation, error) {
	id, ok := r.s.st.byKey[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := r.s.st.participations[id]
	return &p, nil
}

func (r *participationRepository) GetByID(_ context.Context, id uuid.UUID) (*participation.Participation, error) {
	defer r.s.lock()()

	p, ok := r.s.st.participations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *participationRepository) Insert(_ context.Context, p *participation.Participation) error {
	defer r.s.lock()()

	return r.insert(p)
}

func (r *participationRepository) insert(p *participation.Participation) error {
	if _, ok := r.s.st.byKey[p.Key()]; ok {
		return repository.ErrDuplicate
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.st.participations[p.ID] = *p
	r.s.st.byKey[p.Key()] = p.ID
	return nil
}

func (r *participationRepository) Advance(_ context.Context, key participation.Key, target participation.Status, at time.Time, patch repository.Patch) (bool, error) {
	prev, ok := target.Previous()
	if !ok {
		return false, fmt.Errorf("status %s has no predecessor", target)
	}

	defer r.s.lock()()

	stored, err := r.getByKey(key)
	if err != nil {
		return false, nil
	}
	if stored.Status != prev {
		return false, nil
	}

	stored.Stamp(target, at)
	if patch.ContributionScore != nil {
		stored.ContributionScore = *patch.ContributionScore
	}
	if patch.VerificationStatus != nil {
		stored.VerificationStatus = *patch.VerificationStatus
	}
	if patch.Notes != nil {
		stored.Notes = *patch.Notes
	}
	stored.UpdatedAt = at
	r.s.st.participations[stored.ID] = *stored
	return true, nil
}

func (r *participationRepository) UpsertAdvance(_ context.Context, p *participation.Participation) (repository.UpsertResult, error) {
	if !participation.CanCreateAt(p.Status) {
		return repository.UpsertResult{}, fmt.Errorf("cannot upsert participation at status %s", p.Status)
	}

	defer r.s.lock()()

	stored, err := r.getByKey(p.Key())
	if err != nil {
		if err := r.insert(p); err != nil {
			return repository.UpsertResult{}, err
		}
		cp := *p
		return repository.UpsertResult{Created: true, Changed: true, Participation: &cp}, nil
	}

	if stored.Status >= p.Status {
		return repository.UpsertResult{Participation: stored}, nil
	}

	now := time.Now().UTC()
	stored.Stamp(p.Status, now)
	stored.UpdatedAt = now
	r.s.st.participations[stored.ID] = *stored
	return repository.UpsertResult{Changed: true, Participation: stored}, nil
}

func (r *participationRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]repository.StudentParticipation, error) {
	defer r.s.lock()()

	out := make([]repository.StudentParticipation, 0)
	for _, p := range r.s.st.participations {
		if p.StudentID != studentID {
			continue
		}
		e, ok := r.s.st.events[p.EventID]
		if !ok {
			continue
		}
		out = append(out, repository.StudentParticipation{Participation: p, Event: *copyEvent(e)})
	}
	slices.SortFunc(out, func(a, b repository.StudentParticipation) int {
		return b.Participation.RegisteredAt.Compare(a.Participation.RegisteredAt)
	})
	return out, nil
}

func (r *participationRepository) ListByEvent(_ context.Context, eventID uuid.UUID) ([]repository.EventParticipant, error) {
	defer r.s.lock()()

	out := make([]repository.EventParticipant, 0)
	for _, p := range r.s.st.participations {
		if p.EventID != eventID {
			continue
		}
		out = append(out, repository.EventParticipant{Participation: p, Student: r.s.st.profiles[p.StudentID]})
	}
	slices.SortFunc(out, func(a, b repository.EventParticipant) int {
		return a.Participation.RegisteredAt.Compare(b.Participation.RegisteredAt)
	})
	return out, nil
}

func (r *participationRepository) ListCertifiable(_ context.Context, studentID uuid.UUID) ([]participation.CertifiableEvent, error) {
	defer r.s.lock()()

	out := make([]participation.CertifiableEvent, 0)
	for _, p := range r.s.st.participations {
		if p.StudentID != studentID || !p.Status.Certifiable() {
			continue
		}
		e, ok := r.s.st.events[p.EventID]
		if !ok {
			continue
		}
		out = append(out, participation.CertifiableEvent{
			ParticipationID: p.ID,
			EventID:         e.ID,
			EventTitle:      e.Title,
			EventEndDate:    e.EndDate,
			Status:          p.Status,
		})
	}
	slices.SortFunc(out, func(a, b participation.CertifiableEvent) int {
		return b.EventEndDate.Compare(a.EventEndDate)
	})
	return out, nil
}
