package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the account type a profile signed up with
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// RoleFromString parses a role, defaulting unknown values to student
func RoleFromString(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOrganizer:
		return RoleOrganizer
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// Profile is the application-side record of an identity-provider account.
// ID is the identity provider's subject.
type Profile struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email         string    `json:"email" gorm:"not null;uniqueIndex"`
	FullName      string    `json:"full_name" gorm:"not null"`
	Role          Role      `json:"role" gorm:"type:varchar(20);not null;default:'student'"`
	Department    string    `json:"department,omitempty"`
	StudentNumber string    `json:"student_number,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	IsVerified    bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a profile for the identity-provider subject id
func NewProfile(id uuid.UUID, email, fullName string, role Role) *Profile {
	return &Profile{
		ID:        id,
		Email:     NormalizeEmail(email),
		FullName:  strings.TrimSpace(fullName),
		Role:      role,
		CreatedAt: time.Now(),
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CanOrganize reports whether the profile may create and manage events
func (p *Profile) CanOrganize() bool {
	return p.Role == RoleOrganizer || p.Role == RoleAdmin
}

// DisplayName is the name printed on certificates
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return "Student"
}

// Validate checks if the profile data is valid
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return errors.New("id is required")
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return errors.New("a valid email is required")
	}
	switch p.Role {
	case RoleStudent, RoleOrganizer, RoleAdmin:
	default:
		return errors.New("invalid role")
	}
	return nil
}
