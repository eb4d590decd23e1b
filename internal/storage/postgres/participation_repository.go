package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// ParticipationRepository implements repository.ParticipationRepository using GORM
type ParticipationRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewParticipationRepository creates a new PostgreSQL participation repository
func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{
		db:  db,
		log: logger.Repository("participation"),
	}
}

func (r *ParticipationRepository) GetByKey(ctx context.Context, studentID, eventID uuid.UUID) (*participation.Participation, error) {
	var p participation.Participation
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		r.log.Error("Failed to get participation", "student_id", studentID, "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	return &p, nil
}

func (r *ParticipationRepository) GetByID(ctx context.Context, id uuid.UUID) (*participation.Participation, error) {
	var p participation.Participation
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		r.log.Error("Failed to get participation by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get participation by ID: %w", err)
	}
	return &p, nil
}

// Insert creates the row; the unique (student_id, event_id) index turns a
// concurrent second insert into ErrDuplicate.
func (r *ParticipationRepository) Insert(ctx context.Context, p *participation.Participation) error {
	r.log.Debug("Inserting participation", "student_id", p.StudentID, "event_id", p.EventID, "status", p.Status)

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, repository.ErrDuplicate) {
			return repository.ErrDuplicate
		}
		r.log.Error("Failed to insert participation", "error", err)
		return fmt.Errorf("failed to insert participation: %w", err)
	}

	r.log.Info("Participation created", "id", p.ID, "status", p.Status)
	return nil
}

// Advance is a compare-and-set on status: only a row sitting at target's
// predecessor is moved.
func (r *ParticipationRepository) Advance(ctx context.Context, key participation.Key, target participation.Status, at time.Time, patch repository.Patch) (bool, error) {
	prev, ok := target.Previous()
	if !ok {
		return false, fmt.Errorf("status %s has no predecessor", target)
	}

	updates := map[string]any{
		"status":     target.String(),
		"updated_at": at,
	}
	if col := participation.TimestampColumn(target); col != "" {
		updates[col] = at
	}
	if patch.ContributionScore != nil {
		updates["contribution_score"] = *patch.ContributionScore
	}
	if patch.VerificationStatus != nil {
		updates["verification_status"] = *patch.VerificationStatus
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	result := r.db.WithContext(ctx).
		Model(&participation.Participation{}).
		Where("student_id = ? AND event_id = ? AND status = ?", key.StudentID, key.EventID, prev.String()).
		UpdateColumns(updates)
	if result.Error != nil {
		r.log.Error("Failed to advance participation", "target", target, "error", result.Error)
		return false, fmt.Errorf("failed to advance participation: %w", translateError(result.Error))
	}

	if result.RowsAffected > 0 {
		r.log.Info("Participation advanced", "student_id", key.StudentID, "event_id", key.EventID, "status", target)
	}
	return result.RowsAffected > 0, nil
}

// UpsertAdvance inserts p or, on key conflict, raises the stored status to
// p.Status. The conflict update is guarded by a WHERE on the stored status so
// a row already at or past the target is left untouched.
func (r *ParticipationRepository) UpsertAdvance(ctx context.Context, p *participation.Participation) (repository.UpsertResult, error) {
	if !participation.CanCreateAt(p.Status) {
		return repository.UpsertResult{}, fmt.Errorf("cannot upsert participation at status %s", p.Status)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	below := p.Status.Below()
	if len(below) == 0 {
		return r.insertOrKeep(ctx, p)
	}

	now := time.Now().UTC()
	assignments := map[string]any{
		"status":     p.Status.String(),
		"updated_at": now,
	}
	if col := participation.TimestampColumn(p.Status); col != "" {
		assignments[col] = now
	}

	var result repository.UpsertResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "event_id"}},
			DoUpdates: clause.Assignments(assignments),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "participation.status IN ?", Vars: []any{participation.Strings(below)}},
			}},
		}).Create(p)
		if res.Error != nil {
			return translateError(res.Error)
		}

		var stored participation.Participation
		if err := tx.Where("student_id = ? AND event_id = ?", p.StudentID, p.EventID).First(&stored).Error; err != nil {
			return translateError(err)
		}

		result = repository.UpsertResult{
			Created:       res.RowsAffected > 0 && stored.ID == p.ID,
			Changed:       res.RowsAffected > 0,
			Participation: &stored,
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to upsert participation", "student_id", p.StudentID, "event_id", p.EventID, "error", err)
		return repository.UpsertResult{}, fmt.Errorf("failed to upsert participation: %w", err)
	}

	r.log.Info("Participation upserted",
		"id", result.Participation.ID,
		"status", result.Participation.Status,
		"created", result.Created,
		"changed", result.Changed)
	return result, nil
}

func (r *ParticipationRepository) insertOrKeep(ctx context.Context, p *participation.Participation) (repository.UpsertResult, error) {
	err := r.Insert(ctx, p)
	if err == nil {
		return repository.UpsertResult{Created: true, Changed: true, Participation: p}, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return repository.UpsertResult{}, err
	}
	stored, err := r.GetByKey(ctx, p.StudentID, p.EventID)
	if err != nil {
		return repository.UpsertResult{}, err
	}
	return repository.UpsertResult{Participation: stored}, nil
}

// ListByStudent returns the student's participations with their events,
// most recent registration first
func (r *ParticipationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]repository.StudentParticipation, error) {
	var rows []participation.Participation
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("registered_at DESC").
		Find(&rows).Error; err != nil {
		r.log.Error("Failed to list student participations", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	if len(rows) == 0 {
		return []repository.StudentParticipation{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, p := range rows {
		ids[i] = p.EventID
	}
	var events []event.Event
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load participation events: %w", err)
	}
	byID := make(map[uuid.UUID]event.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	out := make([]repository.StudentParticipation, 0, len(rows))
	for _, p := range rows {
		if e, ok := byID[p.EventID]; ok {
			out = append(out, repository.StudentParticipation{Participation: p, Event: e})
		}
	}
	return out, nil
}

// ListByEvent returns the event roster with student profiles, in registration order
func (r *ParticipationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]repository.EventParticipant, error) {
	var rows []participation.Participation
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&rows).Error; err != nil {
		r.log.Error("Failed to list event participants", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if len(rows) == 0 {
		return []repository.EventParticipant{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, p := range rows {
		ids[i] = p.StudentID
	}
	var profiles []profile.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load participant profiles: %w", err)
	}
	byID := make(map[uuid.UUID]profile.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]repository.EventParticipant, 0, len(rows))
	for _, p := range rows {
		out = append(out, repository.EventParticipant{Participation: p, Student: byID[p.StudentID]})
	}
	return out, nil
}

// ListCertifiable returns the student's attended-or-later participations
// joined with event title and end date, latest event first
func (r *ParticipationRepository) ListCertifiable(ctx context.Context, studentID uuid.UUID) ([]participation.CertifiableEvent, error) {
	var rows []participation.CertifiableEvent
	err := r.db.WithContext(ctx).
		Table("participation AS p").
		Select("p.id AS participation_id, p.event_id AS event_id, e.title AS event_title, e.end_date AS event_end_date, p.status AS status").
		Joins("JOIN events e ON e.id = p.event_id").
		Where("p.student_id = ? AND p.status IN ?", studentID, participation.Strings(participation.CertifiableStatuses())).
		Order("e.end_date DESC").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("Failed to list certifiable events", "student_id", studentID, "error", err)
		return nil, fmt.Errorf("failed to list certifiable events: %w", err)
	}
	if rows == nil {
		rows = []participation.CertifiableEvent{}
	}
	return rows, nil
}
