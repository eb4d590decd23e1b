package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/gravadigital/campus-events-api/internal/storage/repository"
)

// SQLSTATE codes the repositories care about
const (
	pqUniqueViolation pq.ErrorCode = "23505"
	pqCheckViolation  pq.ErrorCode = "23514"
)

// capacityConstraint is the check constraint guarding registration_count
const capacityConstraint = "chk_events_registration_within_capacity"

// translateError maps driver errors onto the store sentinels. The pgx and
// sqlite dialects already translate through gorm; lib/pq errors do not.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return repository.ErrDuplicate
		case pqCheckViolation:
			if pqErr.Constraint == capacityConstraint {
				return repository.ErrCapacityExceeded
			}
		}
	}

	if errors.Is(err, gorm.ErrCheckConstraintViolated) && strings.Contains(err.Error(), capacityConstraint) {
		return repository.ErrCapacityExceeded
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repository.ErrDuplicate
	}

	return err
}
