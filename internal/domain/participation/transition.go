package participation

// Decision is the result of evaluating a requested status change
type Decision byte

const (
	// Rejected means the change would skip a state or the target is unknown
	Rejected Decision = iota
	// Allowed means the change moves exactly one step forward
	Allowed
	// Noop means the participation is already at or past the target
	Noop
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Noop:
		return "noop"
	default:
		return "rejected"
	}
}

// Transition decides whether a participation at current may move to target.
// Requests for an equal or earlier state are idempotent no-ops, never a
// regression; forward moves must go one step at a time.
func Transition(current, target Status) Decision {
	if !current.Valid() || !target.Valid() {
		return Rejected
	}
	if target <= current {
		return Noop
	}
	if prev, ok := target.Previous(); ok && prev == current {
		return Allowed
	}
	return Rejected
}

// CanCreateAt reports whether a new participation may start in state s.
// Registration starts at registered; an organizer-confirmed walk-in starts
// at attended.
func CanCreateAt(s Status) bool {
	return s == StatusRegistered || s == StatusAttended
}
