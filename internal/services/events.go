package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/qrcode"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
	"github.com/gravadigital/campus-events-api/internal/validation"
)

// MaxBannerSize is the largest banner image accepted, in bytes
const MaxBannerSize = 5 << 20

var bannerExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// EventService handles event management for organizers and the public catalog
type EventService struct {
	store     repository.Store
	banners   BannerStorage
	publicURL string
	now       func() time.Time
	validator validation.EventValidation
	log       *log.Logger
}

// NewEventService creates a new event service. banners may be nil.
func NewEventService(store repository.Store, banners BannerStorage, publicURL string, clock func() time.Time) *EventService {
	if clock == nil {
		clock = utcNow
	}
	return &EventService{
		store:     store,
		banners:   banners,
		publicURL: publicURL,
		now:       clock,
		validator: validation.EventValidation{},
		log:       logger.Service("events"),
	}
}

// CreateEventRequest is an organizer's request to create an event
type CreateEventRequest struct {
	Title                string     `json:"title" validate:"required"`
	Description          string     `json:"description"`
	EventType            string     `json:"event_type" validate:"omitempty,oneof=workshop hackathon seminar cultural sports tech_talk other"`
	Stage                string     `json:"stage" validate:"omitempty,oneof=draft published registration_open"`
	Venue                string     `json:"venue"`
	Capacity             *int       `json:"capacity"`
	StartDate            time.Time  `json:"start_date" validate:"required"`
	EndDate              time.Time  `json:"end_date" validate:"required"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	AttendanceMethod     string     `json:"attendance_method" validate:"omitempty,oneof=qr manual code gps"`
	AttendanceCode       string     `json:"attendance_code"`
	Requirements         string     `json:"requirements"`
}

// CreateEvent creates an event owned by organizer
func (s *EventService) CreateEvent(ctx context.Context, organizer *profile.Profile, req CreateEventRequest) (*event.Event, error) {
	if organizer == nil {
		return nil, common.ErrUnauthorized
	}
	if !organizer.CanOrganize() {
		return nil, common.ErrRoleRequired
	}

	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.Invalid(err.Error())
	}
	if err := s.validator.ValidateEventTitle(req.Title); err != nil {
		return nil, common.Invalid(err.Error())
	}
	if err := s.validator.ValidateEventDescription(req.Description); err != nil {
		return nil, common.Invalid(err.Error())
	}
	if err := validation.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, common.Invalid(err.Error())
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		return nil, common.Invalid("capacity must be at least 1")
	}

	e := event.NewEvent(strings.TrimSpace(req.Title), organizer.ID, req.StartDate.UTC(), req.EndDate.UTC())
	e.Description = req.Description
	e.Venue = req.Venue
	e.Capacity = req.Capacity
	e.Requirements = req.Requirements
	e.CreatedAt = s.now()
	if req.RegistrationDeadline != nil {
		deadline := req.RegistrationDeadline.UTC()
		e.RegistrationDeadline = &deadline
	}
	if req.EventType != "" {
		e.EventType = event.Type(req.EventType)
	}
	if req.Stage != "" {
		e.Stage, _ = event.StageFromString(req.Stage)
	}
	if req.AttendanceMethod != "" {
		e.AttendanceMethod = event.AttendanceMethod(req.AttendanceMethod)
	}

	if e.AttendanceMethod == event.AttendanceCode {
		if err := s.validator.ValidateAttendanceCode(req.AttendanceCode); err != nil {
			return nil, common.Invalid(err.Error())
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.AttendanceCode)), bcrypt.DefaultCost)
		if err != nil {
			return nil, common.StoreFailure(fmt.Errorf("hash attendance code: %w", err))
		}
		e.AttendanceCodeHash = string(hash)
	}

	if err := e.Validate(); err != nil {
		return nil, common.Invalid(err.Error())
	}

	if err := s.store.Events().Create(ctx, e); err != nil {
		s.log.Error("Failed to create event", "organizer_id", organizer.ID, "error", err)
		return nil, storeError(err, nil)
	}

	s.log.Info("Event created", "event_id", e.ID, "organizer_id", organizer.ID, "stage", e.Stage)
	return e, nil
}

// ListOpenEvents returns the events students can currently browse and register for
func (s *EventService) ListOpenEvents(ctx context.Context) ([]*event.Event, error) {
	events, err := s.store.Events().ListByStages(ctx, event.StagePublished, event.StageRegistrationOpen)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return events, nil
}

// GetEvent returns one event
func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*event.Event, error) {
	e, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrEventNotFound)
	}
	return e, nil
}

// ListOrganizerEvents returns every event organizerID runs
func (s *EventService) ListOrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]*event.Event, error) {
	if organizerID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}
	events, err := s.store.Events().ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return events, nil
}

// ListEventParticipants returns the roster of an event organizerID runs
func (s *EventService) ListEventParticipants(ctx context.Context, organizerID, eventID uuid.UUID) ([]repository.EventParticipant, error) {
	if _, err := loadOwnedEvent(ctx, s.store, organizerID, eventID); err != nil {
		return nil, err
	}

	list, err := s.store.Participations().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeError(err, nil)
	}
	return list, nil
}

// UpdateStage moves an event along its lifecycle
func (s *EventService) UpdateStage(ctx context.Context, organizerID, eventID uuid.UUID, target event.Stage) (*event.Event, error) {
	e, err := loadOwnedEvent(ctx, s.store, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	from := e.Stage
	if err := e.UpdateStage(target); err != nil {
		return nil, common.ErrStageTransition.Wrap(err)
	}

	if err := s.store.Events().UpdateStage(ctx, eventID, from, target); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, common.ErrStageTransition.Wrap(err)
		}
		return nil, storeError(err, common.ErrEventNotFound)
	}

	s.log.Info("Event stage updated", "event_id", eventID, "from", from, "to", target)
	return e, nil
}

// BannerUpload is an uploaded banner image
type BannerUpload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadBanner stores a banner image for an event and records its public URL
func (s *EventService) UploadBanner(ctx context.Context, organizerID, eventID uuid.UUID, upload BannerUpload) (*event.Event, error) {
	if s.banners == nil {
		return nil, common.ErrBannerStorageDisabled
	}

	e, err := loadOwnedEvent(ctx, s.store, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(upload.ContentType, ";", 2)[0]))
	ext, ok := bannerExtensions[contentType]
	if !ok {
		return nil, common.Invalid("banner must be a JPEG, PNG, GIF or WebP image")
	}
	if upload.Size <= 0 || upload.Size > MaxBannerSize {
		return nil, common.Invalid("banner must be at most 5 MB")
	}

	key := fmt.Sprintf("events/%s/banner-%d%s", eventID, s.now().Unix(), ext)
	url, err := s.banners.Put(ctx, key, upload.Body, upload.Size, contentType)
	if err != nil {
		s.log.Error("Failed to store banner", "event_id", eventID, "key", key, "error", err)
		return nil, common.StoreFailure(err)
	}

	if err := s.store.Events().SetBannerURL(ctx, eventID, url); err != nil {
		return nil, storeError(err, common.ErrEventNotFound)
	}

	e.BannerURL = url
	s.log.Info("Event banner uploaded", "event_id", eventID, "url", url)
	return e, nil
}

// CheckInQRCode renders the PNG QR code students scan to check in
func (s *EventService) CheckInQRCode(ctx context.Context, organizerID, eventID uuid.UUID) ([]byte, error) {
	if _, err := loadOwnedEvent(ctx, s.store, organizerID, eventID); err != nil {
		return nil, err
	}

	png, err := qrcode.CheckInPNG(s.publicURL, eventID, qrcode.DefaultSize)
	if err != nil {
		return nil, common.StoreFailure(err)
	}
	return png, nil
}
