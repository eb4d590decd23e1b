package event

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a campus event students register for and attend
type Event struct {
	ID                   uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	Title                string           `json:"title" gorm:"not null"`
	Description          string           `json:"description,omitempty"`
	EventType            Type             `json:"event_type" gorm:"type:varchar(20);not null;default:'other'"`
	Stage                Stage            `json:"stage" gorm:"type:varchar(20);not null;index"`
	OrganizerID          uuid.UUID        `json:"organizer_id" gorm:"type:uuid;not null;index"`
	Venue                string           `json:"venue,omitempty"`
	Capacity             *int             `json:"capacity,omitempty"`
	RegistrationCount    int              `json:"registration_count" gorm:"not null;default:0"`
	StartDate            time.Time        `json:"start_date" gorm:"not null"`
	EndDate              time.Time        `json:"end_date" gorm:"not null"`
	RegistrationDeadline *time.Time       `json:"registration_deadline,omitempty"`
	AttendanceMethod     AttendanceMethod `json:"attendance_method" gorm:"type:varchar(10);not null;default:'qr'"`
	AttendanceCodeHash   string           `json:"-"`
	BannerURL            string           `json:"banner_url,omitempty"`
	Requirements         string           `json:"requirements,omitempty"`
	CreatedAt            time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates a published event owned by organizerID
func NewEvent(title string, organizerID uuid.UUID, startDate, endDate time.Time) *Event {
	return &Event{
		ID:               uuid.New(),
		Title:            title,
		EventType:        TypeOther,
		Stage:            StagePublished,
		OrganizerID:      organizerID,
		StartDate:        startDate,
		EndDate:          endDate,
		AttendanceMethod: AttendanceQR,
		CreatedAt:        time.Now(),
	}
}

// IsOrganizer checks if the given user ID organizes this event
func (e *Event) IsOrganizer(userID uuid.UUID) bool {
	return userID != uuid.Nil && e.OrganizerID == userID
}

// AcceptsRegistrations reports whether a student may register at now
func (e *Event) AcceptsRegistrations(now time.Time) bool {
	if e.Stage != StagePublished && e.Stage != StageRegistrationOpen {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return false
	}
	return true
}

// HasSeatFor reports whether one more registration fits under capacity.
// An event without capacity never fills up.
func (e *Event) HasSeatFor() bool {
	return e.Capacity == nil || e.RegistrationCount < *e.Capacity
}

// RequiresAttendanceCode reports whether self check-in needs the event code
func (e *Event) RequiresAttendanceCode() bool {
	return e.AttendanceMethod == AttendanceCode && e.AttendanceCodeHash != ""
}

// CanTransitionTo checks if the event can transition to a new stage
func (e *Event) CanTransitionTo(newStage Stage) bool {
	transitions := map[Stage][]Stage{
		StageDraft:            {StagePublished},
		StagePublished:        {StageRegistrationOpen, StageOngoing},
		StageRegistrationOpen: {StageOngoing},
		StageOngoing:          {StageCompleted},
		StageCompleted:        {StageArchived},
		StageArchived:         {},
	}

	allowedTransitions, exists := transitions[e.Stage]
	if !exists {
		return false
	}

	return slices.Contains(allowedTransitions, newStage)
}

// UpdateStage updates the stage if the transition is valid
func (e *Event) UpdateStage(newStage Stage) error {
	if !e.CanTransitionTo(newStage) {
		return fmt.Errorf("cannot transition from %s to %s", e.Stage, newStage)
	}
	e.Stage = newStage
	return nil
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.OrganizerID == uuid.Nil {
		return fmt.Errorf("organizer_id is required")
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	if e.Capacity != nil && *e.Capacity < 0 {
		return fmt.Errorf("capacity cannot be negative")
	}
	if e.RegistrationDeadline != nil && e.RegistrationDeadline.After(e.EndDate) {
		return fmt.Errorf("registration_deadline must be before end_date")
	}
	if !e.EventType.Valid() {
		return fmt.Errorf("invalid event_type: %s", e.EventType)
	}
	if !e.AttendanceMethod.Valid() {
		return fmt.Errorf("invalid attendance_method: %s", e.AttendanceMethod)
	}
	return nil
}
