package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"confreg/internal/apperrors"
	"confreg/internal/database"
	"confreg/internal/models"

	"github.com/lib/pq"
)

type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, user_id, event_id, team_id, status, payment_status,
       special_requirements, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }, reg *models.Registration) error {
	return row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.EventID,
		&reg.TeamID,
		&reg.Status,
		&reg.PaymentStatus,
		&reg.SpecialRequirements,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
}

// Create inserts a pending registration. The (user_id, event_id) unique
// constraint backs the one-registration-per-event invariant.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (user_id, event_id, team_id, status, payment_status, special_requirements)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.UserID,
		reg.EventID,
		reg.TeamID,
		reg.Status,
		reg.PaymentStatus,
		reg.SpecialRequirements,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return apperrors.E(apperrors.KindConflict, apperrors.CodeDuplicateRegistration,
			"user is already registered for this event")
	}
	return mapError(err)
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	reg := &models.Registration{}
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	err := scanRegistration(r.db.QueryRowContext(ctx, query, id), reg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return reg, nil
}

func (r *RegistrationRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Registration, error) {
	var regs []models.Registration
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var reg models.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, mapError(err)
		}
		regs = append(regs, reg)
	}

	return regs, mapError(rows.Err())
}

// Transition loads the registration under a row lock, lets apply mutate its
// status fields, and persists the result in the same transaction. apply
// returning an error aborts the transaction with nothing written.
func (r *RegistrationRepository) Transition(ctx context.Context, id int64, apply func(*models.Registration) error) (*models.Registration, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer tx.Rollback()

	reg := &models.Registration{}
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`
	err = scanRegistration(tx.QueryRowContext(ctx, query, id), reg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "registration not found")
	}
	if err != nil {
		return nil, mapError(err)
	}

	// The status set is closed; a row outside it is corruption, not a state,
	// and no transition may build on it.
	if !models.ValidRegistrationStatus(reg.Status) {
		return nil, apperrors.E(apperrors.KindStorageUnavailable, apperrors.CodeStorageUnavailable,
			"registration row holds a status outside the closed set")
	}

	if err := apply(reg); err != nil {
		return nil, err
	}

	update := `
		UPDATE registrations
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, update, reg.Status, reg.PaymentStatus, reg.ID).Scan(&reg.UpdatedAt); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return reg, nil
}

// DueReminder is one row of the daily reminder scan.
type DueReminder struct {
	RegistrationID int64
	UserID         int64
	EventID        int64
	EventTitle     string
	StartsAt       time.Time
}

// DueReminders returns confirmed registrations whose event starts within
// the window. Read-only; the reminder job never mutates registration state.
func (r *RegistrationRepository) DueReminders(ctx context.Context, from, to time.Time) ([]DueReminder, error) {
	var due []DueReminder
	query := `
		SELECT r.id, r.user_id, r.event_id, e.title, e.starts_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.status = 'confirmed'
		  AND e.starts_at >= $1
		  AND e.starts_at < $2
		ORDER BY e.starts_at, r.id`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var d DueReminder
		if err := rows.Scan(&d.RegistrationID, &d.UserID, &d.EventID, &d.EventTitle, &d.StartsAt); err != nil {
			return nil, mapError(err)
		}
		due = append(due, d)
	}

	return due, mapError(rows.Err())
}
