package participation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participation is one student's relationship to one event
type Participation struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	StudentID          uuid.UUID  `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_participation_student_event,priority:1"`
	EventID            uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_participation_student_event,priority:2;index"`
	Status             Status     `json:"status" gorm:"type:varchar(20);not null"`
	RegisteredAt       time.Time  `json:"registered_at" gorm:"not null"`
	AttendedAt         *time.Time `json:"attended_at,omitempty"`
	ContributedAt      *time.Time `json:"contributed_at,omitempty"`
	CertifiedAt        *time.Time `json:"certified_at,omitempty"`
	ContributionScore  float64    `json:"contribution_score" gorm:"not null;default:0"`
	VerificationStatus bool       `json:"verification_status" gorm:"not null;default:false"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Participation) TableName() string {
	return "participation"
}

// BeforeCreate sets a UUID before creating the record
func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewRegistration creates a participation in the registered state
func NewRegistration(studentID, eventID uuid.UUID, now time.Time) *Participation {
	return &Participation{
		ID:           uuid.New(),
		StudentID:    studentID,
		EventID:      eventID,
		Status:       StatusRegistered,
		RegisteredAt: now,
	}
}

// NewWalkIn creates a participation that is registered and attended at once
func NewWalkIn(studentID, eventID uuid.UUID, now time.Time) *Participation {
	at := now
	return &Participation{
		ID:           uuid.New(),
		StudentID:    studentID,
		EventID:      eventID,
		Status:       StatusAttended,
		RegisteredAt: now,
		AttendedAt:   &at,
	}
}

// Key returns the natural key of the participation
func (p *Participation) Key() Key {
	return Key{StudentID: p.StudentID, EventID: p.EventID}
}

// Stamp records the timestamp that belongs to reaching status s
func (p *Participation) Stamp(s Status, at time.Time) {
	t := at
	switch s {
	case StatusAttended:
		p.AttendedAt = &t
	case StatusContributed:
		p.ContributedAt = &t
	case StatusCertified:
		p.CertifiedAt = &t
	}
	p.Status = s
}

// Key identifies a participation by its natural composite key
type Key struct {
	StudentID uuid.UUID
	EventID   uuid.UUID
}

// TimestampColumn is the column set when a participation reaches s
func TimestampColumn(s Status) string {
	switch s {
	case StatusAttended:
		return "attended_at"
	case StatusContributed:
		return "contributed_at"
	case StatusCertified:
		return "certified_at"
	default:
		return ""
	}
}

// CertifiableEvent is one row of a student's certificate list
type CertifiableEvent struct {
	ParticipationID uuid.UUID `json:"participation_id"`
	EventID         uuid.UUID `json:"event_id"`
	EventTitle      string    `json:"event_title"`
	EventEndDate    time.Time `json:"event_end_date"`
	Status          Status    `json:"status"`
}
