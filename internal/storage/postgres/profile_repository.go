package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// ProfileRepository implements repository.ProfileRepository using GORM
type ProfileRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		db:  db,
		log: logger.Repository("profile"),
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	r.log.Debug("Creating profile", "id", p.ID, "email", p.Email)

	p.Email = profile.NormalizeEmail(p.Email)
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, repository.ErrDuplicate) {
			return repository.ErrDuplicate
		}
		r.log.Error("Failed to create profile", "id", p.ID, "error", err)
		return fmt.Errorf("failed to create profile: %w", err)
	}

	r.log.Info("Profile created", "id", p.ID, "role", p.Role)
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	var p profile.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		r.log.Error("Failed to get profile by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	normalized := profile.NormalizeEmail(email)
	if normalized == "" {
		return nil, repository.ErrNotFound
	}

	var p profile.Profile
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", normalized).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Profile not found", "email", normalized)
			return nil, repository.ErrNotFound
		}
		r.log.Error("Failed to get profile by email", "error", err)
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return &p, nil
}

// Update writes the editable profile fields
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	result := r.db.WithContext(ctx).
		Model(&profile.Profile{ID: p.ID}).
		Select("full_name", "department", "student_number", "phone", "bio", "updated_at").
		Updates(p)
	if result.Error != nil {
		r.log.Error("Failed to update profile", "id", p.ID, "error", result.Error)
		return fmt.Errorf("failed to update profile: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	r.log.Info("Profile updated", "id", p.ID)
	return nil
}
