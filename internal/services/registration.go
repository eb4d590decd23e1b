package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/metrics"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// RegistrationService registers students for events
type RegistrationService struct {
	store repository.Store
	now   func() time.Time
	log   *log.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(store repository.Store, clock func() time.Time) *RegistrationService {
	if clock == nil {
		clock = utcNow
	}
	return &RegistrationService{
		store: store,
		now:   clock,
		log:   logger.Service("registration"),
	}
}

// Register creates a registered participation for studentID and takes one
// seat of the event. The participation insert and the seat increment commit
// together or not at all.
func (s *RegistrationService) Register(ctx context.Context, studentID, eventID uuid.UUID) (p *participation.Participation, err error) {
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}()

	if studentID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}

	e, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrEventNotFound)
	}

	now := s.now()
	if !e.AcceptsRegistrations(now) {
		s.log.Warn("Registration rejected, event not open", "event_id", eventID, "stage", e.Stage)
		return nil, common.ErrEventNotOpen
	}

	if existing, err := s.store.Participations().GetByKey(ctx, studentID, eventID); err == nil && existing != nil {
		return nil, common.ErrAlreadyRegistered
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, nil)
	}

	p = participation.NewRegistration(studentID, eventID, now)
	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Participations().Insert(ctx, p); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return common.ErrAlreadyRegistered.Wrap(err)
			}
			return err
		}

		if err := tx.Events().IncrementRegistrationCount(ctx, eventID); err != nil {
			switch {
			case errors.Is(err, repository.ErrCapacityExceeded):
				return common.ErrCapacityExceeded.Wrap(err)
			case errors.Is(err, repository.ErrNotFound):
				return common.ErrEventNotFound.Wrap(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		err = storeError(err, nil)
		if errors.Is(err, common.ErrStoreFailure) {
			s.log.Error("Failed to register student", "event_id", eventID, "student_id", studentID, "error", err)
		} else {
			s.log.Warn("Registration rejected", "event_id", eventID, "student_id", studentID, "reason", metrics.Outcome(err))
		}
		return nil, err
	}

	s.log.Info("Student registered", "event_id", eventID, "student_id", studentID, "participation_id", p.ID)
	return p, nil
}
