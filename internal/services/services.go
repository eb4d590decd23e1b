package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// CertificateRenderer turns a participation into a certificate PDF
type CertificateRenderer interface {
	Render(studentName, eventTitle, eventEndDateISO, certificateID string) ([]byte, error)
}

// BannerStorage stores event banner images and returns their public URL
type BannerStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Options configures the optional collaborators of the services
type Options struct {
	Renderer CertificateRenderer
	// Banners may be nil, in which case banner uploads are disabled
	Banners BannerStorage
	// PublicURL is the frontend base URL encoded into check-in QR codes
	PublicURL string
	// Clock overrides time.Now, mostly for tests
	Clock func() time.Time
}

// Services bundles every service the HTTP layer depends on
type Services struct {
	Registration  *RegistrationService
	Attendance    *AttendanceService
	Certification *CertificationService
	Events        *EventService
	Profiles      *ProfileService
}

// New wires all services on top of one store
func New(store repository.Store, opts Options) *Services {
	clock := opts.Clock
	if clock == nil {
		clock = utcNow
	}

	return &Services{
		Registration:  NewRegistrationService(store, clock),
		Attendance:    NewAttendanceService(store, clock),
		Certification: NewCertificationService(store, opts.Renderer),
		Events:        NewEventService(store, opts.Banners, opts.PublicURL, clock),
		Profiles:      NewProfileService(store),
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// storeError converts a repository error into the service taxonomy.
// ErrNotFound becomes notFound; anything unrecognised is a StoreFailure.
func storeError(err error, notFound *common.Error) error {
	if err == nil {
		return nil
	}

	var ce *common.Error
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound.Wrap(err)
	}
	return common.StoreFailure(err)
}

// loadOwnedEvent loads eventID and checks that organizerID runs it
func loadOwnedEvent(ctx context.Context, store repository.Store, organizerID, eventID uuid.UUID) (*event.Event, error) {
	if organizerID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}

	e, err := store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, storeError(err, common.ErrEventNotFound)
	}
	if !e.IsOrganizer(organizerID) {
		return nil, common.ErrNotEventOrganizer
	}
	return e, nil
}
