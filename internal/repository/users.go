package repository

import (
	"context"
	"database/sql"
	"errors"

	"confreg/internal/database"
	"confreg/internal/identity"
	"confreg/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// GetPrivilegeOverrides returns the per-user grants layered over the user's
// role when a permission set is resolved.
func (r *UserRepository) GetPrivilegeOverrides(ctx context.Context, userID int64) ([]identity.Override, error) {
	var overrides []identity.Override
	query := `
		SELECT resource, action, allowed
		FROM privilege_overrides
		WHERE user_id = $1
		ORDER BY resource, action`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var o identity.Override
		if err := rows.Scan(&o.Resource, &o.Action, &o.Allowed); err != nil {
			return nil, mapError(err)
		}
		overrides = append(overrides, o)
	}

	return overrides, mapError(rows.Err())
}
