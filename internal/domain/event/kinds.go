package event

// Type is the category of an event
type Type string

const (
	TypeWorkshop  Type = "workshop"
	TypeHackathon Type = "hackathon"
	TypeSeminar   Type = "seminar"
	TypeCultural  Type = "cultural"
	TypeSports    Type = "sports"
	TypeTechTalk  Type = "tech_talk"
	TypeOther     Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeWorkshop, TypeHackathon, TypeSeminar, TypeCultural, TypeSports, TypeTechTalk, TypeOther:
		return true
	}
	return false
}

// AttendanceMethod is how attendance is taken at the venue
type AttendanceMethod string

const (
	AttendanceQR     AttendanceMethod = "qr"
	AttendanceManual AttendanceMethod = "manual"
	AttendanceCode   AttendanceMethod = "code"
	AttendanceGPS    AttendanceMethod = "gps"
)

func (m AttendanceMethod) Valid() bool {
	switch m {
	case AttendanceQR, AttendanceManual, AttendanceCode, AttendanceGPS:
		return true
	}
	return false
}
