package repository

import (
	"database/sql"
	"errors"

	"confreg/internal/apperrors"
	"confreg/internal/database"

	"github.com/lib/pq"
)

type Repositories struct {
	Users          *UserRepository
	Events         *EventRepository
	Teams          *TeamRepository
	Registrations  *RegistrationRepository
	Payments       *PaymentRepository
	Contracts      *ContractRepository
	Accommodations *AccommodationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(db),
		Events:         NewEventRepository(db),
		Teams:          NewTeamRepository(db),
		Registrations:  NewRegistrationRepository(db),
		Payments:       NewPaymentRepository(db),
		Contracts:      NewContractRepository(db),
		Accommodations: NewAccommodationRepository(db),
	}
}

// Postgres error classes relevant to the engine's invariants.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqSerializationFail   = "40001"
	pqDeadlockDetected    = "40P01"
)

// mapError translates driver errors into the taxonomy. Unique violations
// are conflicts, check violations mean the application-layer validation was
// bypassed, and serialization/deadlock failures are the one retryable kind.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "record not found")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return apperrors.Wrap(apperrors.KindConflict, apperrors.CodeConflict,
				"unique constraint violated", err)
		case pqCheckViolation:
			return apperrors.Wrap(apperrors.KindValidation, apperrors.CodeMissingField,
				"constraint check failed", err)
		case pqSerializationFail, pqDeadlockDetected:
			return apperrors.Storage(err)
		}
	}
	return apperrors.Storage(err)
}
