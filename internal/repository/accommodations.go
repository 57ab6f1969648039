package repository

import (
	"context"
	"database/sql"
	"errors"

	"confreg/internal/apperrors"
	"confreg/internal/database"
	"confreg/internal/models"
)

type AccommodationRepository struct {
	db *database.DB
}

func NewAccommodationRepository(db *database.DB) *AccommodationRepository {
	return &AccommodationRepository{db: db}
}

const requestColumns = `id, user_id, check_in, check_out, number_of_people, status,
       assigned_accommodation_id, note, created_at, updated_at`

func scanRequest(row interface{ Scan(...any) error }, req *models.AccommodationRequest) error {
	return row.Scan(
		&req.ID,
		&req.UserID,
		&req.CheckIn,
		&req.CheckOut,
		&req.NumberOfPeople,
		&req.Status,
		&req.AssignedAccommodationID,
		&req.Note,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
}

func (r *AccommodationRepository) List(ctx context.Context) ([]models.Accommodation, error) {
	var accs []models.Accommodation
	query := `
		SELECT id, name, capacity, availability, created_at, updated_at
		FROM accommodations
		ORDER BY capacity, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc models.Accommodation
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Capacity, &acc.Availability, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		accs = append(accs, acc)
	}

	return accs, mapError(rows.Err())
}

func (r *AccommodationRepository) CreateRequest(ctx context.Context, req *models.AccommodationRequest) error {
	query := `
		INSERT INTO accommodation_requests (user_id, check_in, check_out, number_of_people, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		req.UserID,
		req.CheckIn,
		req.CheckOut,
		req.NumberOfPeople,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	return mapError(err)
}

func (r *AccommodationRepository) GetRequestByID(ctx context.Context, id int64) (*models.AccommodationRequest, error) {
	req := &models.AccommodationRequest{}
	query := `SELECT ` + requestColumns + ` FROM accommodation_requests WHERE id = $1`

	err := scanRequest(r.db.QueryRowContext(ctx, query, id), req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return req, nil
}

// ProcessRequest runs one allocation decision atomically. The request row
// and every candidate accommodation row are locked for the duration, so two
// requests for overlapping dates cannot both be approved into the same
// accommodation. The request leaves the transaction in exactly one of
// Approved+assignment or Rejected+note.
func (r *AccommodationRepository) ProcessRequest(ctx context.Context, requestID int64, decide models.AllocationDecider) (*models.AccommodationRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer tx.Rollback()

	req := &models.AccommodationRequest{}
	query := `SELECT ` + requestColumns + ` FROM accommodation_requests WHERE id = $1 FOR UPDATE`
	err = scanRequest(tx.QueryRowContext(ctx, query, requestID), req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "accommodation request not found")
	}
	if err != nil {
		return nil, mapError(err)
	}

	if req.Status != models.RequestPending {
		return nil, apperrors.E(apperrors.KindConflict, apperrors.CodeAlreadyProcessed,
			"accommodation request has already been processed")
	}

	// Lock every candidate row so concurrent decisions over the same
	// accommodations serialize.
	candidateQuery := `
		SELECT id, name, capacity, availability, created_at, updated_at
		FROM accommodations
		WHERE capacity >= $1 AND availability <> $2
		ORDER BY capacity, id
		FOR UPDATE`
	rows, err := tx.QueryContext(ctx, candidateQuery, req.NumberOfPeople, models.AccommodationUnavailable)
	if err != nil {
		return nil, mapError(err)
	}
	var candidates []models.Accommodation
	for rows.Next() {
		var acc models.Accommodation
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Capacity, &acc.Availability, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			rows.Close()
			return nil, mapError(err)
		}
		candidates = append(candidates, acc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	// Approved occupants whose [check_in, check_out) overlaps the
	// requested range.
	approvedQuery := `
		SELECT ` + requestColumns + `
		FROM accommodation_requests
		WHERE status = $1
		  AND assigned_accommodation_id IS NOT NULL
		  AND id <> $2
		  AND check_in < $3
		  AND $4 < check_out
		ORDER BY id`
	rows, err = tx.QueryContext(ctx, approvedQuery, models.RequestApproved, req.ID, req.CheckOut, req.CheckIn)
	if err != nil {
		return nil, mapError(err)
	}
	var approved []models.AccommodationRequest
	for rows.Next() {
		var other models.AccommodationRequest
		if err := scanRequest(rows, &other); err != nil {
			rows.Close()
			return nil, mapError(err)
		}
		approved = append(approved, other)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	decision := decide(req, candidates, approved)
	if decision.Approved {
		req.Status = models.RequestApproved
		req.AssignedAccommodationID = &decision.AccommodationID
	} else {
		req.Status = models.RequestRejected
		req.AssignedAccommodationID = nil
	}
	req.Note = &decision.Note

	update := `
		UPDATE accommodation_requests
		SET status = $1, assigned_accommodation_id = $2, note = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, update, req.Status, req.AssignedAccommodationID, req.Note, req.ID).Scan(&req.UpdatedAt); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return req, nil
}

// CancelRequest moves a request to Cancelled under a row lock. Only pending,
// waitlisted, or approved requests can be cancelled.
func (r *AccommodationRepository) CancelRequest(ctx context.Context, requestID int64) (*models.AccommodationRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer tx.Rollback()

	req := &models.AccommodationRequest{}
	query := `SELECT ` + requestColumns + ` FROM accommodation_requests WHERE id = $1 FOR UPDATE`
	err = scanRequest(tx.QueryRowContext(ctx, query, requestID), req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "accommodation request not found")
	}
	if err != nil {
		return nil, mapError(err)
	}

	switch req.Status {
	case models.RequestPending, models.RequestWaitlisted, models.RequestApproved:
	default:
		return nil, apperrors.E(apperrors.KindInvalidTransition, apperrors.CodeInvalidTransition,
			"request cannot be cancelled from its current status")
	}

	req.Status = models.RequestCancelled
	update := `
		UPDATE accommodation_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, update, req.Status, req.ID).Scan(&req.UpdatedAt); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return req, nil
}
