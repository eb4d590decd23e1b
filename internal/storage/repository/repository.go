// Package repository declares the storage contracts the services consume.
// Implementations live in the postgres and memory packages.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
	// ErrCapacityExceeded is returned when an event has no seat left
	ErrCapacityExceeded = errors.New("event capacity exceeded")
	// ErrStaleState is returned when a conditional write found the row in another state
	ErrStaleState = errors.New("record state changed")
)

// ProfileRepository stores identity-provider profiles
type ProfileRepository interface {
	Create(ctx context.Context, p *profile.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (*profile.Profile, error)
	Update(ctx context.Context, p *profile.Profile) error
}

// EventRepository stores events and their registration counter
type EventRepository interface {
	Create(ctx context.Context, e *event.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	ListByStages(ctx context.Context, stages ...event.Stage) ([]*event.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*event.Event, error)
	// UpdateStage moves the event from one stage to another, returning
	// ErrStaleState if the stored stage is no longer from
	UpdateStage(ctx context.Context, id uuid.UUID, from, to event.Stage) error
	SetBannerURL(ctx context.Context, id uuid.UUID, url string) error
	// IncrementRegistrationCount adds one registration in a single conditional
	// write, returning ErrCapacityExceeded when the event is full
	IncrementRegistrationCount(ctx context.Context, id uuid.UUID) error
}

// UpsertResult describes what an organizer walk-in upsert did
type UpsertResult struct {
	// Created is true when no participation existed for the key
	Created bool
	// Changed is false when the stored status was already at or past the target
	Changed bool
	Participation *participation.Participation
}

// ParticipationRepository stores participation rows keyed on (student, event)
type ParticipationRepository interface {
	GetByKey(ctx context.Context, studentID, eventID uuid.UUID) (*participation.Participation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*participation.Participation, error)
	// Insert returns ErrDuplicate when the key already exists
	Insert(ctx context.Context, p *participation.Participation) error
	// Advance moves the row to target only if its status is target's
	// predecessor. It reports whether the row changed.
	Advance(ctx context.Context, key participation.Key, target participation.Status, at time.Time, patch Patch) (bool, error)
	// UpsertAdvance inserts p, or on key conflict raises the stored status to
	// p.Status only when the stored status is strictly lower
	UpsertAdvance(ctx context.Context, p *participation.Participation) (UpsertResult, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]StudentParticipation, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]EventParticipant, error)
	ListCertifiable(ctx context.Context, studentID uuid.UUID) ([]participation.CertifiableEvent, error)
}

// Patch carries the optional columns written alongside a status change
type Patch struct {
	ContributionScore  *float64
	VerificationStatus *bool
	Notes              *string
}

// StudentParticipation is a participation joined with its event
type StudentParticipation struct {
	Participation participation.Participation `json:"participation"`
	Event         event.Event                 `json:"event"`
}

// EventParticipant is a participation joined with the student profile
type EventParticipant struct {
	Participation participation.Participation `json:"participation"`
	Student       profile.Profile             `json:"student"`
}

// Store groups the repositories and runs units of work atomically
type Store interface {
	Profiles() ProfileRepository
	Events() EventRepository
	Participations() ParticipationRepository
	// WithinTransaction runs fn against a transactional Store. fn's error
	// rolls every write back.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
	Health(ctx context.Context) error
	Close() error
}
