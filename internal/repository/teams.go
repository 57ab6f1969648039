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

type TeamRepository struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a team and its leader as the first active member in one
// transaction. The (event_id, name) unique constraint rejects a second team
// with the same name for the same event.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (name, event_id, leader_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		team.Name,
		team.EventID,
		team.LeaderID,
		team.Status,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return apperrors.E(apperrors.KindConflict, apperrors.CodeNameTaken,
			"a team with this name already exists for the event")
	}
	if err != nil {
		return mapError(err)
	}

	memberQuery := `
		INSERT INTO team_members (team_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, memberQuery, team.ID, team.LeaderID, models.MemberRoleLeader, models.MemberActive); err != nil {
		return mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	team := &models.Team{}
	query := `
		SELECT id, name, event_id, leader_id, status, created_at, updated_at
		FROM teams
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.EventID,
		&team.LeaderID,
		&team.Status,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return team, nil
}

// AddMember inserts a roster row after counting active members under a lock
// on the team row. The count and the insert share one transaction, so two
// concurrent adds cannot both slip past the size check.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64, role string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback()

	var teamStatus string
	lockQuery := `SELECT status FROM teams WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, lockQuery, teamID).Scan(&teamStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "team not found")
	}
	if err != nil {
		return mapError(err)
	}

	var activeMembers int
	countQuery := `SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND status = $2`
	if err := tx.QueryRowContext(ctx, countQuery, teamID, models.MemberActive).Scan(&activeMembers); err != nil {
		return mapError(err)
	}

	if !models.CanAddTeamMember(activeMembers) {
		return apperrors.E(apperrors.KindConflict, apperrors.CodeTeamFull,
			"team already has the maximum number of active members")
	}

	insert := `
		INSERT INTO team_members (team_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)`
	_, err = tx.ExecContext(ctx, insert, teamID, userID, role, models.MemberActive)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return apperrors.E(apperrors.KindConflict, apperrors.CodeDuplicateMember,
			"user is already on this team")
	}
	if err != nil {
		return mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// IsActiveMember reports whether the user is an active member of the team.
func (r *TeamRepository) IsActiveMember(ctx context.Context, teamID, userID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM team_members
			WHERE team_id = $1 AND user_id = $2 AND status = $3
		)`
	err := r.db.QueryRowContext(ctx, query, teamID, userID, models.MemberActive).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

// RemoveMember marks a roster row inactive.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	query := `
		UPDATE team_members
		SET status = $1, updated_at = NOW()
		WHERE team_id = $2 AND user_id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, models.MemberInactive, teamID, userID, models.MemberActive)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "active team member not found")
	}
	return nil
}
