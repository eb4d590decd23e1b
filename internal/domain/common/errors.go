package common

import "fmt"

// Kind classifies an Error for the transport layer
type Kind byte

const (
	KindUnauthorized Kind = iota
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalid
	KindStoreFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindStoreFailure:
		return "store_failure"
	default:
		return "unknown"
	}
}

// Error is the result error of every service operation. Message is safe to
// show to end users; Err carries the internal cause and is never rendered.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so that wrapped copies of a sentinel still compare equal
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying cause
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithMessage returns a copy of e with a different user-facing message
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Code: "unauthorized", Message: "Please sign in to continue."}

	ErrNotEventOrganizer = &Error{Kind: KindForbidden, Code: "not_event_organizer", Message: "You do not manage this event."}
	ErrRoleRequired      = &Error{Kind: KindForbidden, Code: "role_required", Message: "Your account is not allowed to do this."}
	ErrProfileMissing    = &Error{Kind: KindForbidden, Code: "profile_missing", Message: "Your profile is not set up. Finish signing up first."}

	ErrEventNotFound         = &Error{Kind: KindNotFound, Code: "event_not_found", Message: "Event not found."}
	ErrNotRegistered         = &Error{Kind: KindNotFound, Code: "not_registered", Message: "Not registered. Please register for this event first."}
	ErrStudentNotFound       = &Error{Kind: KindNotFound, Code: "student_not_found", Message: "Student with this email not found."}
	ErrParticipationNotFound = &Error{Kind: KindNotFound, Code: "participation_not_found", Message: "Participation not found."}
	ErrProfileNotFound       = &Error{Kind: KindNotFound, Code: "profile_not_found", Message: "Profile not found."}

	ErrAlreadyRegistered     = &Error{Kind: KindConflict, Code: "already_registered", Message: "You are already registered for this event."}
	ErrCapacityExceeded      = &Error{Kind: KindConflict, Code: "capacity_exceeded", Message: "This event is full."}
	ErrEventNotOpen          = &Error{Kind: KindConflict, Code: "event_not_open", Message: "Registration for this event is not open."}
	ErrStatusRegression      = &Error{Kind: KindConflict, Code: "status_regression", Message: "Participation status cannot move backwards."}
	ErrInvalidTransition     = &Error{Kind: KindConflict, Code: "invalid_transition", Message: "This status change is not allowed."}
	ErrStageTransition       = &Error{Kind: KindConflict, Code: "invalid_stage_transition", Message: "The event cannot move to that stage."}
	ErrInvalidAttendanceCode = &Error{Kind: KindConflict, Code: "invalid_attendance_code", Message: "The attendance code is not valid."}
	ErrNotCertifiable        = &Error{Kind: KindConflict, Code: "not_certifiable", Message: "No certificate is available for this participation yet."}
	ErrEmailTaken            = &Error{Kind: KindConflict, Code: "email_taken", Message: "Another profile already uses this email."}

	ErrInvalidInput          = &Error{Kind: KindInvalid, Code: "invalid_input", Message: "The request is not valid."}
	ErrBannerStorageDisabled = &Error{Kind: KindInvalid, Code: "banner_storage_disabled", Message: "Banner uploads are not configured."}

	ErrStoreFailure = &Error{Kind: KindStoreFailure, Code: "store_failure", Message: "Something went wrong. Please try again."}
)

// StoreFailure wraps an infrastructural error into the retryable StoreFailure result
func StoreFailure(cause error) *Error {
	return ErrStoreFailure.Wrap(cause)
}

// Invalid reports a validation failure with a user-facing message
func Invalid(msg string) *Error {
	return ErrInvalidInput.WithMessage(msg)
}
