package postgres

import (
	"context"
	"database/sql"
	"errors"

	"familycheckin/internal/domain"
)

const eventColumns = `id, organization_id, title, description, location, starts_at, ends_at, status, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, locNull sql.NullString
	var endsNull sql.NullTime
	if err := row.Scan(&e.ID, &e.OrganizationID, &e.Title, &descNull, &locNull, &e.StartsAt, &endsNull, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	if endsNull.Valid {
		e.EndsAt = &endsNull.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, organization_id, title, description, location, starts_at, ends_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.OrganizationID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Status, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) UpdateDetails(ctx context.Context, id, title string, location *string) (*domain.Event, error) {
	query := `
		UPDATE events
		SET title = $2, location = COALESCE($3, location), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, title, location))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, organizationID string, status domain.EventStatus) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organization_id = $1 AND ($2::text = '' OR status = $2)
		ORDER BY starts_at DESC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizationID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, starts_at = $5, ends_at = $6, status = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Status, e.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountReferences(ctx context.Context, id string) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM attendance WHERE event_id = $1),
			(SELECT COUNT(*) FROM pickup_codes WHERE event_id = $1)
	`
	var attendance, pickupCodes int
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&attendance, &pickupCodes); err != nil {
		return 0, 0, err
	}
	return attendance, pickupCodes, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
