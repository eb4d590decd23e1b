package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// Store implements repository.Store on top of GORM. A Store created by
// WithinTransaction shares one *gorm.DB transaction across its repositories.
type Store struct {
	db                *gorm.DB
	log               *log.Logger
	inTx              bool
	profileRepo       *ProfileRepository
	eventRepo         *EventRepository
	participationRepo *ParticipationRepository
}

var _ repository.Store = (*Store)(nil)

// NewStore connects, migrates and health-checks a PostgreSQL store
func NewStore(cfg *config.Config) (*Store, error) {
	log := logger.Repository("postgres_store")
	log.Info("Initializing PostgreSQL store...")

	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db, cfg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := NewStoreWithDB(db)
	if err := store.Health(context.Background()); err != nil {
		return nil, fmt.Errorf("store health check failed: %w", err)
	}

	log.Info("PostgreSQL store initialized")
	return store, nil
}

// NewStoreWithDB creates a store over an existing connection
func NewStoreWithDB(db *gorm.DB) *Store {
	return newStore(db, false)
}

func newStore(db *gorm.DB, inTx bool) *Store {
	name := "postgres_store"
	if inTx {
		name = "postgres_transaction"
	}
	return &Store{
		db:                db,
		log:               logger.Repository(name),
		inTx:              inTx,
		profileRepo:       NewProfileRepository(db),
		eventRepo:         NewEventRepository(db),
		participationRepo: NewParticipationRepository(db),
	}
}

// Profiles returns the profile repository
func (s *Store) Profiles() repository.ProfileRepository {
	return s.profileRepo
}

// Events returns the event repository
func (s *Store) Events() repository.EventRepository {
	return s.eventRepo
}

// Participations returns the participation repository
func (s *Store) Participations() repository.ParticipationRepository {
	return s.participationRepo
}

// WithinTransaction runs fn in a database transaction. Inside a transaction
// it reuses the current one.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx, true))
	})
}

// Health pings the database and probes every table
func (s *Store) Health(ctx context.Context) error {
	if err := HealthCheck(ctx, s.db); err != nil {
		s.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	for _, table := range []string{"profiles", "events", "participation"} {
		var count int64
		if err := s.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			s.log.Error("Table health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	metrics := GetDatabaseMetrics(s.db)
	s.log.Debug("Store health check passed",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)
	return nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	if s.inTx {
		return fmt.Errorf("cannot close a transactional store")
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		s.log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	s.log.Info("PostgreSQL store closed")
	return nil
}

// DB returns the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}
