package repository

import (
	"context"
	"database/sql"
	"errors"

	"confreg/internal/apperrors"
	"confreg/internal/database"
	"confreg/internal/models"

	"github.com/lib/pq"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, amount, method, status, related_registration_id,
       related_contract_id, order_ref, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }, p *models.Payment) error {
	return row.Scan(
		&p.ID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.RelatedRegistrationID,
		&p.RelatedContractID,
		&p.OrderRef,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a payment. The caller validates the XOR target before this
// point; the schema's CHECK constraint is only a backstop.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (amount, method, status, related_registration_id, related_contract_id, order_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Amount,
		p.Method,
		p.Status,
		p.RelatedRegistrationID,
		p.RelatedContractID,
		p.OrderRef,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound,
			"payment target does not exist")
	}
	return mapError(err)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	p := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	err := scanPayment(r.db.QueryRowContext(ctx, query, id), p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// UpdateTarget re-points a payment. The XOR invariant is re-validated here
// because target fields are mutable after creation; a failing check aborts
// before anything is written.
func (r *PaymentRepository) UpdateTarget(ctx context.Context, id int64, registrationID, contractID *int64) error {
	probe := &models.Payment{
		RelatedRegistrationID: registrationID,
		RelatedContractID:     contractID,
	}
	if err := probe.ValidateTarget(); err != nil {
		return err
	}

	query := `
		UPDATE payments
		SET related_registration_id = $1, related_contract_id = $2, updated_at = NOW()
		WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, registrationID, contractID, id)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "payment not found")
	}
	return nil
}

// Complete settles a payment and reconciles its registration, if any, in a
// single transaction. The payment row and the target registration row are
// both locked for the duration, so two completions racing to confirm the
// same registration serialize and the side effect fires exactly once.
func (r *PaymentRepository) Complete(ctx context.Context, paymentID int64) (*models.Payment, models.ReconcileResult, error) {
	var result models.ReconcileResult

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, result, apperrors.Storage(err)
	}
	defer tx.Rollback()

	p := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	err = scanPayment(tx.QueryRowContext(ctx, query, paymentID), p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, result, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "payment not found")
	}
	if err != nil {
		return nil, result, mapError(err)
	}

	if err := p.ValidateTarget(); err != nil {
		return nil, result, err
	}

	var reg *models.Registration
	if p.RelatedRegistrationID != nil {
		reg = &models.Registration{}
		regQuery := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`
		err = scanRegistration(tx.QueryRowContext(ctx, regQuery, *p.RelatedRegistrationID), reg)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, result, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound,
				"registration targeted by payment not found")
		}
		if err != nil {
			return nil, result, mapError(err)
		}
	}

	result = models.ApplyPaymentCompleted(p, reg)
	if result.AlreadyCompleted {
		return p, result, nil
	}

	update := `UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, update, p.Status, p.ID).Scan(&p.UpdatedAt); err != nil {
		return nil, result, mapError(err)
	}

	if result.RegistrationConfirmed {
		regUpdate := `
			UPDATE registrations
			SET status = $1, payment_status = $2, updated_at = NOW()
			WHERE id = $3`
		if _, err := tx.ExecContext(ctx, regUpdate, reg.Status, reg.PaymentStatus, reg.ID); err != nil {
			return nil, result, mapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, result, apperrors.Storage(err)
	}
	return p, result, nil
}
