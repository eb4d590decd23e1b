package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// EventRepository implements repository.EventRepository using GORM
type EventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	r.log.Debug("Creating event", "title", e.Title, "organizer_id", e.OrganizerID)

	if err := e.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		r.log.Error("Failed to create event", "error", err)
		return fmt.Errorf("failed to create event: %w", translateError(err))
	}

	r.log.Info("Event created", "id", e.ID, "stage", e.Stage)
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var e event.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		r.log.Error("Failed to get event by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}
	return &e, nil
}

// ListByStages returns events in any of stages, earliest start first
func (r *EventRepository) ListByStages(ctx context.Context, stages ...event.Stage) ([]*event.Event, error) {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.String()
	}

	var events []*event.Event
	if err := r.db.WithContext(ctx).
		Where("stage IN ?", names).
		Order("start_date ASC").
		Find(&events).Error; err != nil {
		r.log.Error("Failed to list events by stage", "stages", names, "error", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListByOrganizer returns the organizer's events, newest first
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*event.Event, error) {
	var events []*event.Event
	if err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		r.log.Error("Failed to list organizer events", "organizer_id", organizerID, "error", err)
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) UpdateStage(ctx context.Context, id uuid.UUID, from, to event.Stage) error {
	result := r.db.WithContext(ctx).
		Model(&event.Event{}).
		Where("id = ? AND stage = ?", id, from.String()).
		Update("stage", to.String())
	if result.Error != nil {
		r.log.Error("Failed to update event stage", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update event stage: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return r.missingOr(ctx, id, repository.ErrStaleState)
	}

	r.log.Info("Event stage updated", "id", id, "from", from, "to", to)
	return nil
}

func (r *EventRepository) SetBannerURL(ctx context.Context, id uuid.UUID, url string) error {
	result := r.db.WithContext(ctx).
		Model(&event.Event{}).
		Where("id = ?", id).
		Update("banner_url", url)
	if result.Error != nil {
		r.log.Error("Failed to set banner URL", "id", id, "error", result.Error)
		return fmt.Errorf("failed to set banner url: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementRegistrationCount takes one seat with a single conditional UPDATE,
// so concurrent registrations serialize on the event row.
func (r *EventRepository) IncrementRegistrationCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&event.Event{}).
		Where("id = ? AND (capacity IS NULL OR registration_count < capacity)", id).
		UpdateColumn("registration_count", gorm.Expr("registration_count + ?", 1))
	if result.Error != nil {
		err := translateError(result.Error)
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return repository.ErrCapacityExceeded
		}
		r.log.Error("Failed to increment registration count", "id", id, "error", err)
		return fmt.Errorf("failed to increment registration count: %w", err)
	}
	if result.RowsAffected == 0 {
		return r.missingOr(ctx, id, repository.ErrCapacityExceeded)
	}
	return nil
}

// missingOr distinguishes a missing event from a failed condition
func (r *EventRepository) missingOr(ctx context.Context, id uuid.UUID, conditionErr error) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&event.Event{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return conditionErr
}
