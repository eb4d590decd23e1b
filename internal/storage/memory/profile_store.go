package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

type profileRepository struct {
	s *Store
}

func (r *profileRepository) Create(_ context.Context, p *profile.Profile) error {
	defer r.s.lock()()

	p.Email = profile.NormalizeEmail(p.Email)
	if _, ok := r.s.st.profiles[p.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range r.s.st.profiles {
		if existing.Email == p.Email {
			return repository.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.s.st.profiles[p.ID] = *p
	return nil
}

func (r *profileRepository) GetByID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	defer r.s.lock()()

	p, ok := r.s.st.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *profileRepository) GetByEmail(_ context.Context, email string) (*profile.Profile, error) {
	defer r.s.lock()()

	normalized := profile.NormalizeEmail(email)
	if normalized == "" {
		return nil, repository.ErrNotFound
	}
	for _, p := range r.s.st.profiles {
		if profile.NormalizeEmail(p.Email) == normalized {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *profileRepository) Update(_ context.Context, p *profile.Profile) error {
	defer r.s.lock()()

	stored, ok := r.s.st.profiles[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.FullName = p.FullName
	stored.Department = p.Department
	stored.StudentNumber = p.StudentNumber
	stored.Phone = p.Phone
	stored.Bio = p.Bio
	stored.UpdatedAt = time.Now().UTC()
	r.s.st.profiles[p.ID] = stored
	return nil
}
