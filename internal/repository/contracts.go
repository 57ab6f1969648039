package repository

import (
	"context"
	"database/sql"
	"errors"

	"confreg/internal/apperrors"
	"confreg/internal/database"
	"confreg/internal/models"
)

type ContractRepository struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `id, sponsor_id, package_id, custom_level_id, amount,
       start_date, end_date, status, created_at, updated_at`

func scanContract(row interface{ Scan(...any) error }, c *models.SponsorshipContract) error {
	return row.Scan(
		&c.ID,
		&c.SponsorID,
		&c.PackageID,
		&c.CustomLevelID,
		&c.Amount,
		&c.StartDate,
		&c.EndDate,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *ContractRepository) Create(ctx context.Context, c *models.SponsorshipContract) error {
	query := `
		INSERT INTO sponsorship_contracts (sponsor_id, package_id, custom_level_id, amount, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.SponsorID,
		c.PackageID,
		c.CustomLevelID,
		c.Amount,
		c.StartDate,
		c.EndDate,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return mapError(err)
}

func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*models.SponsorshipContract, error) {
	c := &models.SponsorshipContract{}
	query := `SELECT ` + contractColumns + ` FROM sponsorship_contracts WHERE id = $1`

	err := scanContract(r.db.QueryRowContext(ctx, query, id), c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// Activate moves a contract from negotiation to active. Activation is an
// explicit operation, never a side effect of a payment completing, since a
// contract may still be in negotiation awaiting scheduled installments.
func (r *ContractRepository) Activate(ctx context.Context, id int64) (*models.SponsorshipContract, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer tx.Rollback()

	c := &models.SponsorshipContract{}
	query := `SELECT ` + contractColumns + ` FROM sponsorship_contracts WHERE id = $1 FOR UPDATE`
	err = scanContract(tx.QueryRowContext(ctx, query, id), c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "contract not found")
	}
	if err != nil {
		return nil, mapError(err)
	}

	if c.Status != models.ContractNegotiation {
		return nil, apperrors.E(apperrors.KindInvalidTransition, apperrors.CodeInvalidTransition,
			"only a contract in negotiation can be activated")
	}

	c.Status = models.ContractActive
	update := `UPDATE sponsorship_contracts SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, update, c.Status, c.ID).Scan(&c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return c, nil
}
