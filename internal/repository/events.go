package repository

import (
	"context"
	"database/sql"
	"errors"

	"confreg/internal/database"
	"confreg/internal/models"
)

// EventRepository reads the event catalog. The engine consumes events; it
// never mutates them.
type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, title, type, fee, max_participants, registration_deadline, starts_at, status
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Type,
		&event.Fee,
		&event.MaxParticipants,
		&event.RegistrationDeadline,
		&event.StartsAt,
		&event.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return event, nil
}
