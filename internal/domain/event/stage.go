package event

import (
	"database/sql/driver"
	"fmt"
)

// Stage represents the current stage of an event
type Stage byte

const (
	StageDraft Stage = iota
	StagePublished
	StageRegistrationOpen
	StageOngoing
	StageCompleted
	StageArchived
)

func (s Stage) String() string {
	switch s {
	case StageDraft:
		return "draft"
	case StagePublished:
		return "published"
	case StageRegistrationOpen:
		return "registration_open"
	case StageOngoing:
		return "ongoing"
	case StageCompleted:
		return "completed"
	case StageArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Finished reports whether the event is over
func (s Stage) Finished() bool {
	return s == StageCompleted || s == StageArchived
}

// MarshalJSON implements the json.Marshaler interface
func (s Stage) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Stage) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	stage, valid := StageFromString(str)
	if !valid {
		return fmt.Errorf("invalid stage: %s", str)
	}
	*s = stage
	return nil
}

// StageFromString converts a string to a Stage
func StageFromString(s string) (Stage, bool) {
	switch s {
	case "draft":
		return StageDraft, true
	case "published":
		return StagePublished, true
	case "registration_open":
		return StageRegistrationOpen, true
	case "ongoing":
		return StageOngoing, true
	case "completed":
		return StageCompleted, true
	case "archived":
		return StageArchived, true
	default:
		return StageDraft, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Stage) Scan(value interface{}) error {
	if value == nil {
		*s = StageDraft
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Stage", value)
	}

	stage, valid := StageFromString(str)
	if !valid {
		return fmt.Errorf("invalid stage value: %s", str)
	}
	*s = stage
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Stage) Value() (driver.Value, error) {
	return s.String(), nil
}
