package services

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/auth"
	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
	"github.com/gravadigital/campus-events-api/internal/validation"
)

// ProfileService manages the application-side profile of each identity
type ProfileService struct {
	store     repository.Store
	validator validation.ProfileValidation
	log       *log.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(store repository.Store) *ProfileService {
	return &ProfileService{
		store:     store,
		validator: validation.ProfileValidation{},
		log:       logger.Service("profiles"),
	}
}

// Provision creates the profile of a freshly signed-up identity. Calling it
// again for the same identity returns the existing profile. The admin role
// is never granted from token claims.
func (s *ProfileService) Provision(ctx context.Context, id *auth.Identity) (*profile.Profile, bool, error) {
	if id == nil || id.Subject == uuid.Nil {
		return nil, false, common.ErrUnauthorized
	}

	if existing, err := s.store.Profiles().GetByID(ctx, id.Subject); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, storeError(err, nil)
	}

	if err := validation.ValidateEmail(id.Email); err != nil {
		return nil, false, common.Invalid(err.Error())
	}

	role := profile.RoleFromString(id.Role)
	if role == profile.RoleAdmin {
		s.log.Warn("Ignoring self-assigned admin role", "profile_id", id.Subject)
		role = profile.RoleStudent
	}

	p := profile.NewProfile(id.Subject, id.Email, id.FullName, role)
	if err := p.Validate(); err != nil {
		return nil, false, common.Invalid(err.Error())
	}

	if err := s.store.Profiles().Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race against a concurrent signup of the same identity
			if existing, getErr := s.store.Profiles().GetByID(ctx, id.Subject); getErr == nil {
				return existing, false, nil
			}
			return nil, false, common.ErrEmailTaken.Wrap(err)
		}
		s.log.Error("Failed to create profile", "profile_id", id.Subject, "error", err)
		return nil, false, storeError(err, nil)
	}

	s.log.Info("Profile provisioned", "profile_id", p.ID, "role", p.Role)
	return p, true, nil
}

// Get returns a profile by id
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, err := s.store.Profiles().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, common.ErrProfileNotFound)
	}
	return p, nil
}

// UpdateProfileRequest carries the editable profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name"`
	Department    *string `json:"department" validate:"omitempty,max=100"`
	StudentNumber *string `json:"student_number" validate:"omitempty,max=50"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Bio           *string `json:"bio" validate:"omitempty,max=1000"`
}

// Update edits the caller's own profile
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*profile.Profile, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.Invalid(err.Error())
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if err := s.validator.ValidateFullName(*req.FullName); err != nil {
			return nil, common.Invalid(err.Error())
		}
		p.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Department != nil {
		p.Department = strings.TrimSpace(*req.Department)
	}
	if req.StudentNumber != nil {
		p.StudentNumber = strings.TrimSpace(*req.StudentNumber)
	}
	if req.Phone != nil {
		p.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		p.Bio = strings.TrimSpace(*req.Bio)
	}

	if err := s.store.Profiles().Update(ctx, p); err != nil {
		s.log.Error("Failed to update profile", "profile_id", id, "error", err)
		return nil, storeError(err, common.ErrProfileNotFound)
	}
	return p, nil
}

// Dashboard lists a student's participations with their events, newest
// registration first
func (s *ProfileService) Dashboard(ctx context.Context, studentID uuid.UUID) ([]repository.StudentParticipation, error) {
	if studentID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}

	list, err := s.store.Participations().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return list, nil
}
