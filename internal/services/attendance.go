package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/metrics"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
	"github.com/gravadigital/campus-events-api/internal/validation"
)

// CheckInOutcome says what a check-in did to the participation
type CheckInOutcome string

const (
	OutcomeCheckedIn        CheckInOutcome = "checked_in"
	OutcomeWalkIn           CheckInOutcome = "walk_in"
	OutcomeAlreadyCheckedIn CheckInOutcome = "already_checked_in"
)

// CheckInResult is the successful result of a check-in
type CheckInResult struct {
	Outcome       CheckInOutcome               `json:"outcome"`
	Participation *participation.Participation `json:"participation"`
}

const (
	modeSelf      = "self"
	modeOrganizer = "organizer"
)

// AttendanceService records attendance and later lifecycle steps
type AttendanceService struct {
	store repository.Store
	now   func() time.Time
	log   *log.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(store repository.Store, clock func() time.Time) *AttendanceService {
	if clock == nil {
		clock = utcNow
	}
	return &AttendanceService{
		store: store,
		now:   clock,
		log:   logger.Service("attendance"),
	}
}

// SelfCheckIn marks a registered student as attended. A student who already
// attended gets OutcomeAlreadyCheckedIn and nothing is written.
func (s *AttendanceService) SelfCheckIn(ctx context.Context, studentID, eventID uuid.UUID, code string) (res *CheckInResult, err error) {
	defer func() { s.observe(modeSelf, res, err) }()

	if studentID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}

	p, err := s.store.Participations().GetByKey(ctx, studentID, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrNotRegistered)
	}

	switch participation.Transition(p.Status, participation.StatusAttended) {
	case participation.Noop:
		return &CheckInResult{Outcome: OutcomeAlreadyCheckedIn, Participation: p}, nil
	case participation.Rejected:
		return nil, common.ErrInvalidTransition
	}

	e, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrEventNotFound)
	}
	if err := checkAttendanceCode(e, code); err != nil {
		s.log.Warn("Self check-in rejected, wrong attendance code", "event_id", eventID, "student_id", studentID)
		return nil, err
	}

	now := s.now()
	changed, err := s.store.Participations().Advance(ctx, p.Key(), participation.StatusAttended, now, repository.Patch{})
	if err != nil {
		s.log.Error("Failed to check in student", "event_id", eventID, "student_id", studentID, "error", err)
		return nil, storeError(err, common.ErrNotRegistered)
	}
	if !changed {
		// a concurrent check-in won the conditional update
		current, err := s.store.Participations().GetByKey(ctx, studentID, eventID)
		if err != nil {
			return nil, storeError(err, common.ErrNotRegistered)
		}
		return &CheckInResult{Outcome: OutcomeAlreadyCheckedIn, Participation: current}, nil
	}

	p.Stamp(participation.StatusAttended, now)
	p.UpdatedAt = now
	s.log.Info("Student checked in", "event_id", eventID, "student_id", studentID)
	return &CheckInResult{Outcome: OutcomeCheckedIn, Participation: p}, nil
}

// OrganizerCheckIn marks the student with studentEmail as attended at an
// event organizerID owns. Students without a registration are created
// directly as attended walk-ins; a status already at or past attended is
// left untouched.
func (s *AttendanceService) OrganizerCheckIn(ctx context.Context, organizerID, eventID uuid.UUID, studentEmail string) (res *CheckInResult, err error) {
	defer func() { s.observe(modeOrganizer, res, err) }()

	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}

	if err := validation.ValidateEmail(studentEmail); err != nil {
		return nil, common.Invalid(err.Error())
	}

	student, err := s.store.Profiles().GetByEmail(ctx, strings.TrimSpace(studentEmail))
	if err != nil {
		return nil, storeError(err, common.ErrStudentNotFound)
	}

	result, err := s.store.Participations().UpsertAdvance(ctx, participation.NewWalkIn(student.ID, eventID, s.now()))
	if err != nil {
		s.log.Error("Failed to record attendance", "event_id", eventID, "student_id", student.ID, "error", err)
		return nil, storeError(err, nil)
	}

	outcome := OutcomeAlreadyCheckedIn
	switch {
	case result.Created:
		outcome = OutcomeWalkIn
	case result.Changed:
		outcome = OutcomeCheckedIn
	}

	s.log.Info("Attendance recorded by organizer",
		"event_id", eventID,
		"student_id", student.ID,
		"organizer_id", organizerID,
		"outcome", outcome,
	)
	return &CheckInResult{Outcome: outcome, Participation: result.Participation}, nil
}

// AdvanceInput carries the organizer's request to move a participation on
type AdvanceInput struct {
	Status participation.Status
	// Score is recorded when moving to contributed
	Score *float64
	Notes *string
}

// Advance moves a participant of an organizer's event one step forward to
// contributed or certified. Asking for the current status again is a no-op;
// asking for an earlier one is a regression.
func (s *AttendanceService) Advance(ctx context.Context, organizerID, eventID, studentID uuid.UUID, in AdvanceInput) (p *participation.Participation, err error) {
	defer func() {
		metrics.StatusAdvancesTotal.WithLabelValues(in.Status.String(), metrics.Outcome(err)).Inc()
	}()

	if in.Status != participation.StatusContributed && in.Status != participation.StatusCertified {
		return nil, common.ErrInvalidTransition.WithMessage("Only contributed and certified can be set here.")
	}
	if in.Score != nil && (*in.Score < 0 || *in.Score > 100) {
		return nil, common.Invalid("score must be between 0 and 100")
	}

	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}

	p, err = s.store.Participations().GetByKey(ctx, studentID, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrParticipationNotFound)
	}

	if in.Status < p.Status {
		return nil, common.ErrStatusRegression
	}
	switch participation.Transition(p.Status, in.Status) {
	case participation.Noop:
		return p, nil
	case participation.Rejected:
		return nil, common.ErrInvalidTransition
	}

	patch := repository.Patch{Notes: in.Notes}
	if in.Status == participation.StatusContributed {
		patch.ContributionScore = in.Score
	} else {
		verified := true
		patch.VerificationStatus = &verified
	}

	changed, err := s.store.Participations().Advance(ctx, p.Key(), in.Status, s.now(), patch)
	if err != nil {
		s.log.Error("Failed to advance participation", "participation_id", p.ID, "status", in.Status, "error", err)
		return nil, storeError(err, common.ErrParticipationNotFound)
	}

	current, err := s.store.Participations().GetByKey(ctx, studentID, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrParticipationNotFound)
	}
	if !changed && current.Status < in.Status {
		return nil, common.ErrInvalidTransition
	}

	s.log.Info("Participation advanced",
		"participation_id", current.ID,
		"status", current.Status,
		"organizer_id", organizerID,
	)
	return current, nil
}

func (s *AttendanceService) ownedEvent(ctx context.Context, organizerID, eventID uuid.UUID) (*event.Event, error) {
	e, err := loadOwnedEvent(ctx, s.store, organizerID, eventID)
	if errors.Is(err, common.ErrNotEventOrganizer) {
		s.log.Warn("Organizer does not own event", "event_id", eventID, "organizer_id", organizerID)
	}
	return e, err
}

func (s *AttendanceService) observe(mode string, res *CheckInResult, err error) {
	outcome := metrics.Outcome(err)
	if err == nil && res != nil {
		outcome = string(res.Outcome)
	}
	metrics.CheckInsTotal.WithLabelValues(mode, outcome).Inc()
}

func checkAttendanceCode(e *event.Event, code string) error {
	if !e.RequiresAttendanceCode() {
		return nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return common.ErrInvalidAttendanceCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.AttendanceCodeHash), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrInvalidAttendanceCode
		}
		return common.ErrInvalidAttendanceCode.Wrap(err)
	}
	return nil
}
