package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/metrics"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

var errNoRenderer = errors.New("certificate renderer not configured")

// Certificate is a rendered certificate ready to download
type Certificate struct {
	Filename string
	PDF      []byte
}

// CertificationService lists and renders participation certificates
type CertificationService struct {
	store    repository.Store
	renderer CertificateRenderer
	log      *log.Logger
}

// NewCertificationService creates a new certification service
func NewCertificationService(store repository.Store, renderer CertificateRenderer) *CertificationService {
	return &CertificationService{
		store:    store,
		renderer: renderer,
		log:      logger.Service("certification"),
	}
}

// ListCertifiableEvents returns the events studentID earned a certificate
// for, newest event first
func (s *CertificationService) ListCertifiableEvents(ctx context.Context, studentID uuid.UUID) ([]participation.CertifiableEvent, error) {
	if studentID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}

	list, err := s.store.Participations().ListCertifiable(ctx, studentID)
	if err != nil {
		s.log.Error("Failed to list certifiable events", "student_id", studentID, "error", err)
		return nil, storeError(err, nil)
	}
	return list, nil
}

// RenderCertificate renders the certificate of one of studentID's own
// participations. The participation id doubles as the certificate id.
func (s *CertificationService) RenderCertificate(ctx context.Context, studentID, participationID uuid.UUID) (*Certificate, error) {
	if studentID == uuid.Nil {
		return nil, common.ErrUnauthorized
	}

	p, err := s.store.Participations().GetByID(ctx, participationID)
	if err != nil {
		return nil, storeError(err, common.ErrParticipationNotFound)
	}
	// someone else's certificate is reported as missing
	if p.StudentID != studentID {
		return nil, common.ErrParticipationNotFound
	}
	if !p.Status.Certifiable() {
		return nil, common.ErrNotCertifiable
	}

	e, err := s.store.Events().GetByID(ctx, p.EventID)
	if err != nil {
		return nil, storeError(err, common.ErrEventNotFound)
	}
	student, err := s.store.Profiles().GetByID(ctx, studentID)
	if err != nil {
		return nil, storeError(err, common.ErrProfileNotFound)
	}

	if s.renderer == nil {
		return nil, common.StoreFailure(errNoRenderer)
	}
	pdf, err := s.renderer.Render(student.DisplayName(), e.Title, e.EndDate.UTC().Format(time.RFC3339), p.ID.String())
	if err != nil {
		s.log.Error("Failed to render certificate", "participation_id", p.ID, "error", err)
		return nil, common.StoreFailure(err)
	}

	metrics.CertificatesRenderedTotal.Inc()
	s.log.Info("Certificate rendered", "participation_id", p.ID, "event_id", e.ID)

	return &Certificate{Filename: certificateFilename(e.Title), PDF: pdf}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func certificateFilename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, "_"), "_")
	if name == "" {
		name = "Event"
	}
	return name + "_Certificate.pdf"
}
