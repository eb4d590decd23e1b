package participation

import (
	"database/sql/driver"
	"fmt"
)

// Status is a participation lifecycle state. The numeric order is the
// lifecycle order: a participation only ever moves to a greater Status.
type Status byte

const (
	StatusRegistered Status = iota + 1
	StatusAttended
	StatusContributed
	StatusCertified
)

// statusUnknown is the zero value and never stored
const statusUnknown Status = 0

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "registered"
	case StatusAttended:
		return "attended"
	case StatusContributed:
		return "contributed"
	case StatusCertified:
		return "certified"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four lifecycle states
func (s Status) Valid() bool {
	return s >= StatusRegistered && s <= StatusCertified
}

// Previous returns the state immediately before s, or false for the first state
func (s Status) Previous() (Status, bool) {
	if !s.Valid() || s == StatusRegistered {
		return statusUnknown, false
	}
	return s - 1, true
}

// Below returns every state strictly lower than s, in lifecycle order
func (s Status) Below() []Status {
	var out []Status
	for st := StatusRegistered; st < s && st.Valid(); st++ {
		out = append(out, st)
	}
	return out
}

// Certifiable reports whether a participation in state s earns a certificate
func (s Status) Certifiable() bool {
	return s >= StatusAttended && s.Valid()
}

// CertifiableStatuses lists the states that earn a certificate
func CertifiableStatuses() []Status {
	return []Status{StatusAttended, StatusContributed, StatusCertified}
}

// Strings converts statuses to their stored representation
func Strings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// StatusFromString converts a stored string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "registered":
		return StatusRegistered, true
	case "attended":
		return StatusAttended, true
	case "contributed":
		return StatusContributed, true
	case "certified":
		return StatusCertified, true
	default:
		return statusUnknown, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid participation status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into participation status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid participation status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid participation status: %d", s)
	}
	return s.String(), nil
}
